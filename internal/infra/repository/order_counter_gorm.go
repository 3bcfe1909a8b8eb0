package repository

import (
	"context"

	"gorm.io/gorm"
)

type OrderCounterGormRepository struct {
	db *gorm.DB
}

func NewOrderCounterGormRepository(db *gorm.DB) *OrderCounterGormRepository {
	return &OrderCounterGormRepository{db: db}
}

// その日の次の連番を採番する。
// UPSERT 1文なので、同時に呼ばれても同じ番号は二度出ない。
func (r *OrderCounterGormRepository) NextSequence(ctx context.Context, dayKey string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO order_counters (day_key, last_seq)
		 VALUES (?, 1)
		 ON CONFLICT (day_key)
		 DO UPDATE SET last_seq = order_counters.last_seq + 1
		 RETURNING last_seq`,
		dayKey,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
