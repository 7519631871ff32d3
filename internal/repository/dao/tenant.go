package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Tenant is a row of bancas.
type Tenant struct {
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	Nombre       string `gorm:"not null"`
	Codigo       string `gorm:"uniqueIndex;not null"`
	NombreTicket string `gorm:"not null"`

	EsquemaPrecioID *string `gorm:"type:uuid"`
	EsquemaPagoID   *string `gorm:"type:uuid"`

	LimiteQ  *float64
	LimiteP  *float64
	LimiteT  *float64
	LimiteSP *float64 `gorm:"column:limite_sp"`

	Activa bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Tenant) TableName() string {
	return "bancas"
}

// TenantWithSchemes adds the price and payout scheme names.
type TenantWithSchemes struct {
	Tenant
	EsquemaPrecio *string
	EsquemaPago   *string
}

type Price struct {
	Modalidad string
	LoteriaID *string
	Precio    float64
}

type TenantDAO struct {
	db *gorm.DB
}

func NewTenantDAO(db *gorm.DB) *TenantDAO {
	return &TenantDAO{
		db: db,
	}
}

func (d *TenantDAO) FindByID(ctx context.Context, id string) (Tenant, error) {
	var tenant Tenant

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Tenant{}, ErrTenantNotFound
		}

		return Tenant{}, result.Error
	}

	return tenant, nil
}

// ListPrices returns the detail rows of a price scheme.
func (d *TenantDAO) ListPrices(ctx context.Context, schemeID string) ([]Price, error) {
	var prices []Price

	err := d.db.WithContext(ctx).
		Table("esquema_precios_detalle").
		Select("modalidad, loteria_id, precio").
		Where("esquema_id = ?", schemeID).
		Order("modalidad").
		Scan(&prices).Error
	if err != nil {
		return nil, err
	}

	return prices, nil
}

func (d *TenantDAO) List(ctx context.Context) ([]TenantWithSchemes, error) {
	var tenants []TenantWithSchemes

	err := d.db.WithContext(ctx).
		Table("bancas b").
		Select("b.*, ep.nombre AS esquema_precio, epg.nombre AS esquema_pago").
		Joins("LEFT JOIN esquema_precios ep ON ep.id = b.esquema_precio_id").
		Joins("LEFT JOIN esquema_pagos epg ON epg.id = b.esquema_pago_id").
		Order("b.nombre").
		Scan(&tenants).Error
	if err != nil {
		return nil, err
	}

	return tenants, nil
}

func (d *TenantDAO) Insert(ctx context.Context, tenant Tenant) (Tenant, error) {
	result := d.db.WithContext(ctx).Create(&tenant)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Tenant{}, ErrTenantCodeExists
		}
		if isForeignKeyViolation(result.Error) {
			return Tenant{}, ErrForeignKeyViolation
		}

		return Tenant{}, result.Error
	}

	return tenant, nil
}

func (d *TenantDAO) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Model(&Tenant{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrForeignKeyViolation
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	return nil
}

const priceSchemesQuery = `SELECT ep.id, ep.nombre, ep.activo,
       COALESCE(jsonb_agg(jsonb_build_object(
         'modalidad', epd.modalidad,
         'loteria_id', epd.loteria_id,
         'precio', epd.precio
       ) ORDER BY epd.modalidad) FILTER (WHERE epd.esquema_id IS NOT NULL), '[]'::jsonb) AS detalle
FROM esquema_precios ep
LEFT JOIN esquema_precios_detalle epd ON epd.esquema_id = ep.id
GROUP BY ep.id
ORDER BY ep.nombre`

const payoutSchemesQuery = `SELECT ep.id, ep.nombre, ep.activo,
       COALESCE(jsonb_agg(jsonb_build_object(
         'modalidad', epd.modalidad,
         'posicion', epd.posicion,
         'loteria_id', epd.loteria_id,
         'pago', epd.pago
       ) ORDER BY epd.modalidad, epd.posicion) FILTER (WHERE epd.esquema_id IS NOT NULL), '[]'::jsonb) AS detalle
FROM esquema_pagos ep
LEFT JOIN esquema_pagos_detalle epd ON epd.esquema_id = ep.id
GROUP BY ep.id
ORDER BY ep.nombre`

// PriceSchemes lists every price scheme with its lines. Read only.
func (d *TenantDAO) PriceSchemes(ctx context.Context) ([]byte, error) {
	return callJSON(ctx, d.db, emptyArray, aggregateJSON(priceSchemesQuery))
}

// PayoutSchemes lists every payout scheme with its lines. Read only.
func (d *TenantDAO) PayoutSchemes(ctx context.Context) ([]byte, error) {
	return callJSON(ctx, d.db, emptyArray, aggregateJSON(payoutSchemesQuery))
}
