package profile

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dhyhn5012/tccb/internal/apperror"
	"github.com/dhyhn5012/tccb/internal/model"
)

// Repository persists profiles and requests. *store.Store implements it.
type Repository interface {
	SaveEmployee(p *model.EmployeeProfile) error
	ListEmployees() ([]model.EmployeeProfile, error)
	SaveRequest(r *model.SupportRequest) error
}

// Service validates and stores submissions.
type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a profile service.
func NewService(repo Repository) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(apperror.JSONTagName)
	return &Service{
		repo:     repo,
		validate: v,
		logger:   zap.L().Named("profile"),
	}
}

// Submit validates and stores a profile. The option fields must be one of
// the configured values.
func (s *Service) Submit(p *model.EmployeeProfile) error {
	p.FullName = strings.TrimSpace(p.FullName)
	if err := s.validate.Struct(p); err != nil {
		return apperror.MapValidationError(err)
	}
	if !contains(DepartmentOptions, p.Department) {
		return apperror.InvalidField("Khoa/Phòng/Trung tâm")
	}
	if !contains(TitleOptions, p.Title) {
		return apperror.InvalidField("Chức danh")
	}
	if !contains(StatusOptions, p.Status) {
		return apperror.InvalidField("Trạng thái cập nhật hồ sơ")
	}

	if err := s.repo.SaveEmployee(p); err != nil {
		return fmt.Errorf("submit profile: %w", err)
	}
	s.logger.Info("profile saved", zap.Int64("id", p.ID), zap.String("department", p.Department))
	return nil
}

// SubmitRequest validates and stores a support request.
func (s *Service) SubmitRequest(r *model.SupportRequest) error {
	r.Content = strings.TrimSpace(r.Content)
	if err := s.validate.Struct(r); err != nil {
		return apperror.MapValidationError(err)
	}
	if err := s.repo.SaveRequest(r); err != nil {
		return fmt.Errorf("submit request: %w", err)
	}
	s.logger.Info("support request saved", zap.Int64("id", r.ID))
	return nil
}

// List returns every stored profile.
func (s *Service) List() ([]model.EmployeeProfile, error) {
	return s.repo.ListEmployees()
}

// Stats computes the dashboard statistics over every stored profile.
func (s *Service) Stats() (*Stats, error) {
	list, err := s.repo.ListEmployees()
	if err != nil {
		return nil, err
	}
	return ComputeStats(list), nil
}
