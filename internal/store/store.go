package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"healthapp-server/internal/models"
	"healthapp-server/internal/scheduling"
)

// Store bundles the GORM-backed repositories behind the scheduling store
// interfaces and adds the notification repository used by the dispatcher.
type Store struct {
	db            *gorm.DB
	appointments  *AppointmentRepo
	availability  *AvailabilityRepo
	users         *UserRepo
	notifications *NotificationRepo
}

// New creates a Store on top of db.
func New(db *gorm.DB) *Store {
	cache, _ := lru.New[string, []models.DoctorAvailability](availabilityCacheSize)
	return newStore(db, cache)
}

func newStore(db *gorm.DB, cache *lru.Cache[string, []models.DoctorAvailability]) *Store {
	return &Store{
		db:            db,
		appointments:  &AppointmentRepo{db: db},
		availability:  &AvailabilityRepo{db: db, cache: cache},
		users:         &UserRepo{db: db},
		notifications: &NotificationRepo{db: db},
	}
}

func (s *Store) Appointments() scheduling.AppointmentStore { return s.appointments }

func (s *Store) Availability() scheduling.AvailabilityStore { return s.availability }

func (s *Store) Users() scheduling.UserStore { return s.users }

// AvailabilityWindows exposes the full availability repository for the
// doctor-facing management endpoints.
func (s *Store) AvailabilityWindows() *AvailabilityRepo { return s.availability }

// Notifications exposes the notification repository.
func (s *Store) Notifications() *NotificationRepo { return s.notifications }

// Transaction scopes every store call inside fn to one database transaction.
// The availability cache is shared with the transactional copy.
func (s *Store) Transaction(fn func(scheduling.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(newStore(tx, s.availability.cache))
	})
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
