package controllers

import (
	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/services"

	"github.com/gofiber/fiber/v2"
)

// CheckCourseAccess answers whether the caller may open one course. A store
// outage across every access-fact source comes back as 503, never as a
// denial.
func CheckCourseAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	resolver := services.NewAccessResolver(database.Database.Db, config.AppConfig.GrandfatheredCourseIDs)
	hasAccess, err := resolver.HasAccess(userID, uint(courseID))
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access resolved!", fiber.Map{
		"course_id":  courseID,
		"has_access": hasAccess,
	})
}

// GetEntitlements returns every course id the caller is entitled to.
func GetEntitlements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	resolver := services.NewAccessResolver(database.Database.Db, config.AppConfig.GrandfatheredCourseIDs)
	access, err := resolver.ResolveAccess(userID)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	courseIDs := make([]uint, 0, len(access))
	for id := range access {
		courseIDs = append(courseIDs, id)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Entitlements resolved!", fiber.Map{
		"course_ids": courseIDs,
		"total":      len(courseIDs),
	})
}

// BackfillEnrollments creates enrollments for entitled courses that are
// missing one, e.g. after a payment landed but the enrollment write failed.
func BackfillEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	resolver := services.NewAccessResolver(database.Database.Db, config.AppConfig.GrandfatheredCourseIDs)
	created, err := resolver.BackfillEnrollments(userID)
	if err != nil {
		return middleware.ServiceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments backfilled!", fiber.Map{
		"created_course_ids": created,
		"total":              len(created),
	})
}
