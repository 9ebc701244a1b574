package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/resitdesk/internal/app/controllers"
	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	resitExamController *controllers.ResitExamController,
	enrollmentController *controllers.EnrollmentController,
	resultController *controllers.ResultController,
	userController *controllers.UserController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Every route requires a verified token; this service issues none itself.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Course administration
		courses := authenticated.Group("/courses")
		{
			courses.GET("/:id", courseController.GetCourseByID)
			courses.GET("/:id/resit-exam", resitExamController.GetResitExamByCourse)

			coursesSecretary := courses.Group("")
			coursesSecretary.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				coursesSecretary.POST("", courseController.CreateCourse)
				coursesSecretary.DELETE("/:id", courseController.DeleteCourse)
				coursesSecretary.PUT("/:id/instructor", courseController.AssignInstructor)
				coursesSecretary.POST("/:id/students", courseController.AddCourseStudent)
			}
		}

		// Resit exam lifecycle
		resitExams := authenticated.Group("/resit-exams")
		{
			resitExams.GET("/:id", resitExamController.GetResitExamByID)

			resitExamsInstructor := resitExams.Group("")
			resitExamsInstructor.Use(authMiddleware.RoleRequired(models.RoleInstructor))
			{
				resitExamsInstructor.POST("", resitExamController.CreateResitExam)
				resitExamsInstructor.PUT("/:id", resitExamController.UpdateResitExam)
				resitExamsInstructor.DELETE("/:id", resitExamController.DeleteResitExam)
				resitExamsInstructor.POST("/:id/results", resultController.RecordResult)
				resitExamsInstructor.POST("/:id/results/bulk", resultController.RecordResultsBulk)
			}

			resitExamsSecretary := resitExams.Group("")
			resitExamsSecretary.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				resitExamsSecretary.PUT("/:id/confirm", resitExamController.ConfirmResitExam)
			}

			// Enrollments: students act on themselves, staff read the roster
			resitExamsStudent := resitExams.Group("")
			resitExamsStudent.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				resitExamsStudent.POST("/:id/enrollments", enrollmentController.Enroll)
				resitExamsStudent.DELETE("/:id/enrollments", enrollmentController.Unenroll)
			}

			resitExamsStaff := resitExams.Group("")
			resitExamsStaff.Use(authMiddleware.RoleAnyOf(models.RoleInstructor, models.RoleSecretary))
			{
				resitExamsStaff.GET("/:id/enrollments", enrollmentController.ListEnrollments)
			}
		}

		// Grade ledger entry
		grades := authenticated.Group("/grades")
		grades.Use(authMiddleware.RoleAnyOf(models.RoleInstructor, models.RoleSecretary))
		{
			grades.PUT("", courseController.UpdateGrade)
		}

		// Account provisioning and removal
		users := authenticated.Group("/users")
		{
			users.GET("/:id", userController.GetUserByID)

			usersSecretary := users.Group("")
			usersSecretary.Use(authMiddleware.RoleRequired(models.RoleSecretary))
			{
				usersSecretary.POST("", userController.CreateUser)
				usersSecretary.DELETE("/:id", userController.DeleteUser)
			}
		}

		// Notifications for the authenticated user
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.PUT("/:id/read", notificationController.MarkNotificationRead)
		}
	}
}
