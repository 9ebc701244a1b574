package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CourseRepository       *CourseRepository
	GradeRepository        *GradeRepository
	ResitExamRepository    *ResitExamRepository
	EnrollmentRepository   *EnrollmentRepository
	ApplicationRepository  *ApplicationRepository
	ResultRepository       *ResultRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		CourseRepository:       NewCourseRepository(db),
		GradeRepository:        NewGradeRepository(db),
		ResitExamRepository:    NewResitExamRepository(db),
		EnrollmentRepository:   NewEnrollmentRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		ResultRepository:       NewResultRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
