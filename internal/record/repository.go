package record

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zillusion/capsule/database"
)

// resource names the entity in not-found errors: "File not found".
const resource = "File"

// Repository reads and writes Records.
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Get loads a record regardless of owner.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, database.FromDatabase(err, resource, id)
	}
	return &rec, nil
}

// GetOwned loads a record owned by userID. Records of other users are
// reported as not found.
func (r *Repository) GetOwned(ctx context.Context, id, userID string) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&rec).Error
	if err != nil {
		return nil, database.FromDatabase(err, resource, id)
	}
	return &rec, nil
}

// Insert stores rec. CreatedAt is set by GORM when zero.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return database.FromDatabase(err, resource, rec.ID)
	}
	return nil
}

// UpdateAnalysis stores the analysis JSON of record id.
func (r *Repository) UpdateAnalysis(ctx context.Context, id string, analysis datatypes.JSON) error {
	res := r.db.WithContext(ctx).Model(&Record{}).Where("id = ?", id).Update("analysis", analysis)
	if res.Error != nil {
		return database.FromDatabase(res.Error, resource, id)
	}
	if res.RowsAffected == 0 {
		return database.FromDatabase(gorm.ErrRecordNotFound, resource, id)
	}
	return nil
}

// CountByUser counts the records owned by userID.
func (r *Repository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Record{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, database.FromDatabase(err, resource, "")
	}
	return n, nil
}

// ListByUser returns userID's records newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]Record, error) {
	var recs []Record
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, database.FromDatabase(err, resource, "")
	}
	return recs, nil
}
