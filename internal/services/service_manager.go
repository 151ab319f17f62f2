package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/attendance-service/internal/auth"
	"github.com/SAP-F-2025/attendance-service/internal/events"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo           repositories.Repository
	tokens         *auth.TokenManager
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	// Service instances
	authService       AuthService
	courseService     CourseService
	sessionService    SessionService
	attendanceService AttendanceService
	dashboardService  DashboardService
	reportService     ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(repo repositories.Repository, tokens *auth.TokenManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	return &serviceManager{
		repo:           repo,
		tokens:         tokens,
		eventPublisher: publisher,
		logger:         logger,
		validator:      validator,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	eventService := newNotificationEventService(sm.eventPublisher, sm.logger)

	sm.authService = NewAuthService(sm.repo, sm.tokens, eventService, sm.logger, sm.validator)
	sm.courseService = NewCourseService(sm.repo, sm.logger, sm.validator)
	sm.sessionService = NewSessionService(sm.repo, eventService, sm.logger, sm.validator)
	sm.attendanceService = NewAttendanceService(sm.repo, eventService, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.sessionService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.attendanceService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized || sm.shutdown {
		panic("service manager not initialized")
	}
}

// Shutdown stops the services and releases their resources.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")

	return nil
}
