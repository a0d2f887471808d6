package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fooddrop/delivery-api/models"
)

// NextOrderNumber reserves the next order number for the given day,
// formatted as ORD<YYYYMMDD><seq zero-padded to 4 digits>.
//
// The per-day sequence lives in a counter row that is upserted inside
// the caller's transaction: the first create of the day inserts the
// row, subsequent creates increment it. Concurrent transactions
// serialize on the row lock, so N concurrent creates reserve N
// distinct numbers.
func NextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	date := now.Format("20060102")

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("order_counters.seq + 1")}),
	}).Create(&models.OrderCounter{Date: date, Seq: 1}).Error
	if err != nil {
		return "", err
	}

	var counter models.OrderCounter
	if err := tx.Where("date = ?", date).First(&counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD%s%04d", date, counter.Seq), nil
}
