package db

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

func jsonList(items ...string) datatypes.JSON {
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

func ptr[T any](v T) *T { return &v }

// SeedProviders bootstraps the provider directory with the demo roster.
// Runs only when the users table has no providers yet.
func SeedProviders(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&models.User{}).
		Where("role = ?", models.RoleProvider).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	providers := []models.User{
		{
			Phone:           "+919876543210",
			Role:            models.RoleProvider,
			Name:            "Priya Sharma",
			Email:           "priya@example.com",
			City:            "Mumbai",
			Area:            "Andheri West",
			ProfileComplete: true,
			Profession:      "Student",
			InstituteName:   "Mumbai University",
			Course:          "B.Sc Computer Science",
			ProviderRole:    models.ProviderWriter,
			Expertise:       jsonList("Diagrams", "Lab Records", "Notes"),
			StartingPrice:   50,
			Bio:             "Experienced in creating neat diagrams and lab records. Fast turnaround time.",
			Samples: jsonList(
				"https://images.unsplash.com/photo-1455390582262-044cdead277a",
				"https://images.unsplash.com/photo-1484480974693-6ca0a78fb36b",
				"https://images.unsplash.com/photo-1586281380349-632531db7ed4",
			),
			Status:       models.ProviderVerified,
			Rating:       4.8,
			TotalReviews: 42,
			Latitude:     ptr(19.1136),
			Longitude:    ptr(72.8697),
		},
		{
			Phone:           "+919876543211",
			Role:            models.RoleProvider,
			Name:            "Rahul Verma",
			Email:           "rahul@example.com",
			City:            "Mumbai",
			Area:            "Bandra",
			ProfileComplete: true,
			Profession:      "Student",
			InstituteName:   "IIT Bombay",
			Course:          "B.Tech Mechanical",
			ProviderRole:    models.ProviderArtist,
			Expertise:       jsonList("Diagrams", "Charts", "Project Formatting"),
			StartingPrice:   75,
			Bio:             "Specializing in technical drawings and engineering diagrams. Precision guaranteed.",
			Samples: jsonList(
				"https://images.unsplash.com/photo-1517842645767-c639042777db",
				"https://images.unsplash.com/photo-1503676260728-1c00da094a0b",
				"https://images.unsplash.com/photo-1554415707-6e8cfc93fe23",
			),
			Status:       models.ProviderVerified,
			Rating:       4.9,
			TotalReviews: 38,
			Latitude:     ptr(19.0596),
			Longitude:    ptr(72.8295),
		},
		{
			Phone:           "+919876543212",
			Role:            models.RoleProvider,
			Name:            "Anjali Patel",
			Email:           "anjali@example.com",
			City:            "Mumbai",
			Area:            "Powai",
			ProfileComplete: true,
			Profession:      "Housewife",
			ProviderRole:    models.ProviderWriter,
			Expertise:       jsonList("Assignments", "Notes", "Lab Records"),
			StartingPrice:   40,
			Bio:             "Patient and detail-oriented. Perfect handwriting for notes and assignments.",
			Samples: jsonList(
				"https://images.unsplash.com/photo-1501504905252-473c47e087f8",
				"https://images.unsplash.com/photo-1484480974693-6ca0a78fb36b",
			),
			Status:       models.ProviderPending,
			Rating:       0,
			TotalReviews: 0,
			Latitude:     ptr(19.1197),
			Longitude:    ptr(72.9078),
		},
		{
			Phone:           "+919876543213",
			Role:            models.RoleProvider,
			Name:            "Vikram Singh",
			Email:           "vikram@example.com",
			City:            "Mumbai",
			Area:            "Goregaon",
			ProfileComplete: true,
			Profession:      "Job",
			ProviderRole:    models.ProviderArtist,
			Expertise:       jsonList("Charts", "Diagrams"),
			StartingPrice:   60,
			Bio:             "Quick delivery and professional quality diagrams.",
			Samples: jsonList(
				"https://images.unsplash.com/photo-1434030216411-0b793f4b4173",
				"https://images.unsplash.com/photo-1454165804606-c3d57bc86b40",
			),
			Status:       models.ProviderVerified,
			Rating:       4.7,
			TotalReviews: 25,
			Latitude:     ptr(19.1546),
			Longitude:    ptr(72.8492),
		},
	}

	return gdb.Create(&providers).Error
}
