package repository

import (
	"context"
	"errors"

	"petshop_tycoon/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccessoryNotFound = errors.New("accessory not found")
var ErrNotOwned = errors.New("accessory not owned")

type AccessoryRepository struct {
	db *pgxpool.Pool
}

func NewAccessoryRepository(db *pgxpool.Pool) *AccessoryRepository {
	return &AccessoryRepository{db: db}
}

const accessoryColumns = `id, name, title, category, required_level, crystal_price, diamond_price, sort_order`

func scanAccessory(row pgx.Row) (*domain.Accessory, error) {
	var a domain.Accessory
	err := row.Scan(&a.ID, &a.Name, &a.Title, &a.Category, &a.RequiredLevel, &a.CrystalPrice, &a.DiamondPrice, &a.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccessoryNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccessoryRepository) GetByID(ctx context.Context, id int64) (*domain.Accessory, error) {
	return scanAccessory(r.db.QueryRow(ctx,
		`SELECT `+accessoryColumns+` FROM accessories WHERE id = $1`, id))
}

func (r *AccessoryRepository) List(ctx context.Context) ([]*domain.Accessory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+accessoryColumns+` FROM accessories ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Accessory
	for rows.Next() {
		var a domain.Accessory
		if err := rows.Scan(&a.ID, &a.Name, &a.Title, &a.Category, &a.RequiredLevel, &a.CrystalPrice, &a.DiamondPrice, &a.SortOrder); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

// GetMilestoneForLevelTx ищет аксессуар с максимальным required_level,
// не превышающим уровень игрока
func (r *AccessoryRepository) GetMilestoneForLevelTx(ctx context.Context, tx pgx.Tx, level int) (*domain.Accessory, error) {
	return scanAccessory(tx.QueryRow(ctx,
		`SELECT `+accessoryColumns+` FROM accessories
		 WHERE required_level <= $1
		 ORDER BY required_level DESC, id
		 LIMIT 1`, level))
}

func (r *AccessoryRepository) IsOwnedTx(ctx context.Context, tx pgx.Tx, userID, accessoryID int64) (bool, error) {
	var owned bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_accessories WHERE user_id = $1 AND accessory_id = $2)`,
		userID, accessoryID).Scan(&owned)
	return owned, err
}

// GrantTx выдаёт аксессуар внутри транзакции
func (r *AccessoryRepository) GrantTx(ctx context.Context, tx pgx.Tx, userID, accessoryID int64, equipped bool) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_accessories (user_id, accessory_id, is_equipped)
		 VALUES ($1, $2, $3)`,
		userID, accessoryID, equipped)
	return err
}

// GetOwnership возвращает строку владения вместе с категорией аксессуара
func (r *AccessoryRepository) GetOwnershipTx(ctx context.Context, tx pgx.Tx, userID, accessoryID int64) (*domain.UserAccessory, string, error) {
	var ua domain.UserAccessory
	var category string
	err := tx.QueryRow(ctx,
		`SELECT ua.id, ua.user_id, ua.accessory_id, ua.is_equipped, ua.obtained_at, a.category
		 FROM user_accessories ua
		 JOIN accessories a ON a.id = ua.accessory_id
		 WHERE ua.user_id = $1 AND ua.accessory_id = $2
		 FOR UPDATE OF ua`,
		userID, accessoryID).Scan(&ua.ID, &ua.UserID, &ua.AccessoryID, &ua.IsEquipped, &ua.ObtainedAt, &category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotOwned
		}
		return nil, "", err
	}
	return &ua, category, nil
}

// UnequipCategoryTx снимает все аксессуары игрока в категории.
// Вызывается перед надеванием, чтобы в категории оставался максимум один.
func (r *AccessoryRepository) UnequipCategoryTx(ctx context.Context, tx pgx.Tx, userID int64, category string) error {
	_, err := tx.Exec(ctx,
		`UPDATE user_accessories ua
		 SET is_equipped = false
		 FROM accessories a
		 WHERE ua.accessory_id = a.id
		   AND ua.user_id = $1
		   AND a.category = $2
		   AND ua.is_equipped`,
		userID, category)
	return err
}

func (r *AccessoryRepository) SetEquippedTx(ctx context.Context, tx pgx.Tx, ownershipID int64, equipped bool) error {
	_, err := tx.Exec(ctx,
		`UPDATE user_accessories SET is_equipped = $1 WHERE id = $2`, equipped, ownershipID)
	return err
}

// ListOwned возвращает аксессуары игрока с деталями каталога
func (r *AccessoryRepository) ListOwned(ctx context.Context, userID int64) ([]*domain.UserAccessoryWithDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ua.id, ua.user_id, ua.accessory_id, ua.is_equipped, ua.obtained_at,
				a.id, a.name, a.title, a.category, a.required_level, a.crystal_price, a.diamond_price, a.sort_order
		 FROM user_accessories ua
		 JOIN accessories a ON a.id = ua.accessory_id
		 WHERE ua.user_id = $1
		 ORDER BY a.sort_order, a.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.UserAccessoryWithDetails
	for rows.Next() {
		var d domain.UserAccessoryWithDetails
		err := rows.Scan(
			&d.ID, &d.UserID, &d.AccessoryID, &d.IsEquipped, &d.ObtainedAt,
			&d.Accessory.ID, &d.Accessory.Name, &d.Accessory.Title,
			&d.Accessory.Category, &d.Accessory.RequiredLevel, &d.Accessory.CrystalPrice,
			&d.Accessory.DiamondPrice, &d.Accessory.SortOrder,
		)
		if err != nil {
			return nil, err
		}
		res = append(res, &d)
	}
	return res, rows.Err()
}
