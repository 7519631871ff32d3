package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is a row of usuarios. The password column holds a bcrypt hash.
type User struct {
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	Username string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	Nombre *string
	Rol    string `gorm:"not null"`
	Activo bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "usuarios"
}

// UserTenant assigns a user to a banca with a commission per modality.
type UserTenant struct {
	UsuarioID       string  `gorm:"type:uuid;primaryKey"`
	BancaID         string  `gorm:"type:uuid;primaryKey"`
	Modalidad       string  `gorm:"primaryKey"`
	PorcentajeBruto float64 `gorm:"not null;default:0"`
	PorcentajeNeto  float64 `gorm:"not null;default:0"`
}

func (UserTenant) TableName() string {
	return "usuarios_bancas"
}

// UserWithTenant is a user plus the first banca it is linked to, if any.
type UserWithTenant struct {
	User
	BancaID *string
}

// UserTenantLink is a usuarios_bancas row joined with the banca name.
type UserTenantLink struct {
	UsuarioID       string
	BancaID         string
	Banca           string
	Modalidad       string
	PorcentajeBruto float64
	PorcentajeNeto  float64
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// FindByUsername looks a user up by normalized username. An account linked to
// several bancas gets the lowest banca id so the choice is stable.
func (d *UserDAO) FindByUsername(ctx context.Context, username string) (UserWithTenant, error) {
	var found UserWithTenant

	result := d.db.WithContext(ctx).Raw(
		`SELECT u.id, u.username, u.password, u.nombre, u.rol, u.activo, u.created_at, u.updated_at,
		        ub.banca_id
		 FROM usuarios u
		 LEFT JOIN (
		   SELECT DISTINCT ON (usuario_id) usuario_id, banca_id
		   FROM usuarios_bancas ORDER BY usuario_id, banca_id
		 ) ub ON ub.usuario_id = u.id
		 WHERE u.username = ?`, username).Scan(&found)
	if result.Error != nil {
		return UserWithTenant{}, result.Error
	}
	if result.RowsAffected == 0 {
		return UserWithTenant{}, ErrUserNotFound
	}

	return found, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserUsernameExists
		}

		return User{}, result.Error
	}

	return user, nil
}

// Update applies the non-empty columns in fields. Users are never deleted;
// deactivation is an update of activo.
func (d *UserDAO) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) List(ctx context.Context) ([]User, error) {
	var users []User

	if err := d.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (d *UserDAO) ListTenantLinks(ctx context.Context) ([]UserTenantLink, error) {
	var links []UserTenantLink

	err := d.db.WithContext(ctx).
		Table("usuarios_bancas ub").
		Select("ub.usuario_id, ub.banca_id, b.nombre AS banca, ub.modalidad, ub.porcentaje_bruto, ub.porcentaje_neto").
		Joins("JOIN bancas b ON b.id = ub.banca_id").
		Order("ub.usuario_id, b.nombre, ub.modalidad").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}

	return links, nil
}

// UpsertTenant creates or updates the commission of a user on a banca.
func (d *UserDAO) UpsertTenant(ctx context.Context, link UserTenant) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usuario_id"}, {Name: "banca_id"}, {Name: "modalidad"}},
		DoUpdates: clause.Assignments(map[string]any{
			"porcentaje_bruto": link.PorcentajeBruto,
			"porcentaje_neto":  link.PorcentajeNeto,
		}),
	}).Create(&link).Error
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKeyViolation
		}
		return err
	}

	return nil
}
