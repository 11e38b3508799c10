package main

import (
	"academy/config"
	"academy/database"
	courseModels "academy/models/course"
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"
)

// Seeds courses and lessons from Courses.csv. Expected columns:
// course_title, course_description, author, lesson_title, lesson_order
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	// Open CSV file
	file, err := os.Open("Courses.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	db := database.Database.Db
	courseIDs := make(map[string]uint)
	coursesCreated := 0
	lessonsCreated := 0
	skipped := 0

	for i, row := range records[1:] {
		courseTitle := strings.TrimSpace(row[headerIndex["course_title"]])
		lessonTitle := strings.TrimSpace(row[headerIndex["lesson_title"]])
		if courseTitle == "" || lessonTitle == "" {
			log.Printf("Skipping row %d: missing titles", i+2)
			skipped++
			continue
		}

		courseID, seen := courseIDs[courseTitle]
		if !seen {
			var existing courseModels.Course
			err := db.Where("title = ? AND is_deleted = ?", courseTitle, false).First(&existing).Error
			if err == nil {
				courseID = existing.ID
			} else {
				course := courseModels.Course{
					Title:       courseTitle,
					Description: strings.TrimSpace(row[headerIndex["course_description"]]),
					Author:      strings.TrimSpace(row[headerIndex["author"]]),
					Status:      "ACTIVE",
					IsPublished: true,
				}
				if err := db.Create(&course).Error; err != nil {
					log.Printf("Skipping row %d: failed to create course %q: %v", i+2, courseTitle, err)
					skipped++
					continue
				}
				courseID = course.ID
				coursesCreated++
			}
			courseIDs[courseTitle] = courseID
		}

		order, err := strconv.Atoi(strings.TrimSpace(row[headerIndex["lesson_order"]]))
		if err != nil {
			order = lessonsCreated + 1
		}

		lesson := courseModels.Lesson{
			CourseID:    courseID,
			Title:       lessonTitle,
			OrderIndex:  order,
			IsPublished: true,
		}
		if err := db.Create(&lesson).Error; err != nil {
			log.Printf("Skipping row %d: failed to create lesson %q: %v", i+2, lessonTitle, err)
			skipped++
			continue
		}
		lessonsCreated++
	}

	log.Printf("Import complete: %d courses, %d lessons, %d skipped", coursesCreated, lessonsCreated, skipped)
}
