package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/forms"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	Type   string
	Status string
	Search string
}

// SubmissionStore persists accepted form submissions.
type SubmissionStore struct {
	db *gorm.DB
}

// NewSubmissionStore constructs a SubmissionStore.
func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Create stores payload as a new submission with status new.
func (s *SubmissionStore) Create(ctx context.Context, p *forms.Payload, otpVerified bool) (*models.FormSubmission, error) {
	cols := p.Fields.Columns()

	sub := models.FormSubmission{
		Type:        string(p.Type),
		Name:        p.Name,
		Email:       p.Email,
		Company:     cols.Company,
		Subject:     cols.Subject,
		Message:     cols.Message,
		Department:  cols.Department,
		Product:     cols.Product,
		CVPath:      cols.CVPath,
		RawPayload:  datatypes.JSON(p.Raw),
		OTPVerified: otpVerified,
		Status:      models.SubmissionStatusNew,
	}
	if p.HasPhone() {
		phone := utils.NormalizePhone(p.Phone)
		sub.Phone = &phone
	}

	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, apperr.Storage("save submission", err)
	}
	return &sub, nil
}

// Get loads a submission by ID.
func (s *SubmissionStore) Get(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error) {
	var sub models.FormSubmission
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("submission not found")
		}
		return nil, apperr.Storage("load submission", err)
	}
	return &sub, nil
}

// List returns submissions newest first with the total count.
func (s *SubmissionStore) List(ctx context.Context, f SubmissionFilter, pg utils.Pagination) ([]models.FormSubmission, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.FormSubmission{})
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?", q, q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage("count submissions", err)
	}

	var subs []models.FormSubmission
	if err := query.Order("created_at desc").Limit(pg.Limit).Offset(pg.Offset).Find(&subs).Error; err != nil {
		return nil, 0, apperr.Storage("list submissions", err)
	}
	return subs, total, nil
}

// UpdateStatus moves a submission to status.
func (s *SubmissionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.FormSubmission, error) {
	if !models.ValidSubmissionStatus(status) {
		return nil, apperr.Validation("status must be one of: new, reviewed, archived")
	}

	res := s.db.WithContext(ctx).Model(&models.FormSubmission{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, apperr.Storage("update submission status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("submission not found")
	}
	return s.Get(ctx, id)
}

// MarkNotified records that the notification email went out.
func (s *SubmissionStore) MarkNotified(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Model(&models.FormSubmission{}).Where("id = ?", id).
		Update("notified", true).Error; err != nil {
		return apperr.Storage("mark submission notified", err)
	}
	return nil
}

// Delete removes a submission.
func (s *SubmissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.FormSubmission{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Storage("delete submission", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("submission not found")
	}
	return nil
}
