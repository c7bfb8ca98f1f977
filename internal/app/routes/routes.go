package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/controllers"
	"github.com/yigit/enrollhub/internal/middleware"
	pkgauth "github.com/yigit/enrollhub/internal/pkg/auth"
)

// Controllers groups every HTTP handler set mounted under /api.
type Controllers struct {
	Auth        *controllers.AuthController
	Student     *controllers.StudentController
	Import      *controllers.ImportController
	Track       *controllers.TrackController
	Instructor  *controllers.InstructorController
	Enrollment  *controllers.EnrollmentController
	Coordinator *controllers.CoordinatorController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.IPRateLimiter,
) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", c.Health.Health)

	login := api.Group("")
	login.Use(loginLimiter.Middleware())
	{
		login.POST("/login", c.Auth.StudentLogin)
		login.POST("/coordinator/login", c.Auth.CoordinatorLogin)
	}

	// --- Authenticated routes (students and coordinators) ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/ShowTracks", c.Track.ListTracks)
		authenticated.GET("/available-tracks", c.Enrollment.AvailableTracks)

		// Students may only act for themselves; coordinators for anyone.
		authenticated.POST("/enroll-track", c.Enrollment.EnrollTrack)
		authenticated.GET("/enrollment-status/:student_id", c.Enrollment.EnrollmentStatus)
		authenticated.POST("/cancel-enrollment", c.Enrollment.CancelEnrollment)
	}

	// --- Coordinator routes ---
	coordinator := authenticated.Group("")
	coordinator.Use(authMiddleware.RoleRequired(pkgauth.RoleCoordinator))
	{
		coordinator.POST("/coordinatorAdd", c.Coordinator.CreateCoordinator)
		coordinator.GET("/coordinator/:id/preferences", c.Coordinator.GetPreferences)
		coordinator.PUT("/coordinator/:id/preferences", c.Coordinator.UpdatePreferences)

		// Students
		coordinator.POST("/students", c.Student.CreateStudent)
		coordinator.DELETE("/students/archive-all", c.Student.ArchiveAllStudents)
		coordinator.GET("/restore-all-students", c.Student.RestoreAllStudents)
		coordinator.GET("/student/:id", c.Student.GetStudent)
		coordinator.PUT("/student/:id", c.Student.UpdateStudent)
		coordinator.DELETE("/student/:id", c.Student.ArchiveStudent)
		coordinator.GET("/restore-student/:id", c.Student.RestoreStudent)
		coordinator.GET("/showStudents", c.Student.ListStudents)
		coordinator.POST("/import-csv", c.Import.ImportCSV)

		// Tracks
		coordinator.POST("/tracks", c.Track.CreateTrack)
		coordinator.PUT("/UpdateTrack/:id", c.Track.UpdateTrack)
		coordinator.DELETE("/DeleteTrack/:id", c.Track.DeleteTrack)

		// Instructors
		coordinator.POST("/instructors", c.Instructor.CreateInstructor)
		coordinator.GET("/ShowInstructor", c.Instructor.ListInstructors)
		coordinator.GET("/ShowInstructor/:id", c.Instructor.GetInstructor)
		coordinator.PUT("/UpdateInstructor/:id", c.Instructor.UpdateInstructor)
		coordinator.DELETE("/DeleteInstructor/:id", c.Instructor.DeleteInstructor)

		// Enrollment review
		coordinator.GET("/enrollments", c.Enrollment.ListEnrollments)
		coordinator.PUT("/enrollments/:id/:action", c.Enrollment.DecideEnrollment)
	}
}
