package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lottery is a row of loterias.
type Lottery struct {
	ID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string `gorm:"not null"`
	Codigo      string `gorm:"uniqueIndex;not null"`
	ZonaHoraria string `gorm:"not null"`
	Orden       int    `gorm:"not null;default:0"`
}

func (Lottery) TableName() string {
	return "loterias"
}

// LotterySchedule is the daily betting window of a lottery.
type LotterySchedule struct {
	LoteriaID  string `gorm:"type:uuid;primaryKey"`
	HoraInicio string `gorm:"type:time;not null"`
	HoraCierre string `gorm:"type:time;not null"`
}

func (LotterySchedule) TableName() string {
	return "loteria_horarios"
}

type LotteryWithSchedule struct {
	Lottery
	HoraInicio *string
	HoraCierre *string
}

type LotteryDAO struct {
	db *gorm.DB
}

func NewLotteryDAO(db *gorm.DB) *LotteryDAO {
	return &LotteryDAO{
		db: db,
	}
}

func (d *LotteryDAO) List(ctx context.Context) ([]LotteryWithSchedule, error) {
	var lotteries []LotteryWithSchedule

	err := d.db.WithContext(ctx).
		Table("loterias l").
		Select("l.*, lh.hora_inicio::text AS hora_inicio, lh.hora_cierre::text AS hora_cierre").
		Joins("LEFT JOIN loteria_horarios lh ON lh.loteria_id = l.id").
		Order("l.orden, l.nombre").
		Scan(&lotteries).Error
	if err != nil {
		return nil, err
	}

	return lotteries, nil
}

// Insert creates the lottery and, when given, its schedule in one transaction.
func (d *LotteryDAO) Insert(ctx context.Context, lottery Lottery, schedule *LotterySchedule) (Lottery, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lottery).Error; err != nil {
			return err
		}
		if schedule == nil {
			return nil
		}

		schedule.LoteriaID = lottery.ID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "loteria_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"hora_inicio", "hora_cierre"}),
		}).Create(schedule).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Lottery{}, ErrLotteryCodeExists
		}
		return Lottery{}, err
	}

	return lottery, nil
}
