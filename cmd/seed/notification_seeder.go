package main

import (
	"log"

	"ai-compliance-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "USER_LOGIN",
			DisplayName: "Login Activity",
			Template:    "You logged in from {device} at {time}",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SESSION_CREATED",
			DisplayName: "Document Started",
			Template:    "You started a new document: \"{title}\"",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "FIELDS_MERGED",
			DisplayName: "Fields Updated",
			Template:    "{merged_count} field(s) were added to \"{title}\"",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    false,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "DOCUMENT_COMPLETED",
			DisplayName: "Document Ready",
			Template:    "Your document \"{title}\" has all required fields and is ready to export",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "DOCUMENT_EXPORTED",
			DisplayName: "Document Exported",
			Template:    "Your document \"{title}\" was exported as {format}",
			TargetType:  "SELF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "REPOSITORY_ANALYZED",
			DisplayName: "Repository Analyzed",
			Template:    "Analysis of {repo_url} finished with {merged_count} extracted field(s)",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "TEST_EVENT",
			DisplayName: "Test Notification",
			Template:    "This is a test notification: {message}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		// --- Administrative & System Notifications ---
		{
			Code:        "USER_REGISTERED",
			DisplayName: "New User Registration",
			Template:    "New user registered: {email} ({user_id})",
			TargetType:  "ADMIN", // Send to all admins
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "USER_DELETED",
			DisplayName: "User Account Deleted",
			Template:    "User deleted account: {user_id}",
			TargetType:  "ADMIN",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "SYSTEM_BROADCAST",
			DisplayName: "System Announcement",
			Template:    "{message}",
			TargetType:  "BROADCAST", // Special type for all users
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
	}

	for _, t := range types {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
