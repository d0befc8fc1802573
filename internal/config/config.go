package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort       string
	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int
	RedisAddr     string
	RedisPassword string
	OTPTTLMin     int
	DevMode       bool

	// Whether rejecting a quote also clears the quote fields.
	// Default keeps the quote on the record after a revert to REQUESTED.
	ClearQuoteOnRevert bool
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	otpTTL, _ := strconv.Atoi(get("OTP_TTL_MIN", "5"))
	return Config{
		AppPort:            get("APP_PORT", "8080"),
		DBDSN:              must("DB_DSN"),
		JWTSecret:          must("JWT_SECRET"),
		JWTExpiresMin:      expires,
		RedisAddr:          get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      get("REDIS_PASSWORD", ""),
		OTPTTLMin:          otpTTL,
		DevMode:            get("DEV_MODE", "true") == "true",
		ClearQuoteOnRevert: get("CLEAR_QUOTE_ON_REVERT", "false") == "true",
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
