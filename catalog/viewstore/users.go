package viewstore

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

// CreateUser registers a user under a fresh random id. Surrounding whitespace is removed
// from email and names before they are validated and stored. users_by_id and users_by_email are
// written in one batch; the users_by_email insert is guarded, so a second registration
// with the same email fails with catalog.ErrEmailAlreadyRegistered and writes nothing.
func (s *ViewStore) CreateUser(ctx context.Context, email, firstName, lastName string) (uuid.UUID, error) {
	email, firstName, lastName = catalog.NormalizeRegistration(email, firstName, lastName)

	if err := catalog.ValidateRegistration(email, firstName, lastName); err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, errors.Join(catalog.ErrStore, err)
	}

	registeredAt := s.dialect.timeArg(time.Now())

	err = s.execBatch(ctx, opCreateUser, []adapters.BatchItem{
		{
			Statement: s.stmts.insertUserByEmail,
			Args:      []any{email, id.String()},
			MustApply: true,
		},
		{
			Statement: s.stmts.insertUserByID,
			Args:      []any{id.String(), email, firstName, lastName, registeredAt, 0, 0},
		},
	})

	if errors.Is(err, adapters.ErrNotApplied) {
		return uuid.Nil, catalog.ErrEmailAlreadyRegistered
	}

	if err != nil {
		return uuid.Nil, errors.Join(catalog.ErrStore, err)
	}

	s.logOperation(opCreateUser, logAttrUserID, id.String())

	return id, nil
}

// GetUserByID reads a user from users_by_id. A missing user is reported with found=false.
func (s *ViewStore) GetUserByID(ctx context.Context, id uuid.UUID) (catalog.User, bool, error) {
	return queryOne(ctx, s, opGetUser, s.stmts.selectUserByID, scanUser, id.String())
}

// GetUserByEmail resolves the email through users_by_email and reads the user from users_by_id.
func (s *ViewStore) GetUserByEmail(ctx context.Context, email string) (catalog.User, bool, error) {
	id, found, err := queryOne(ctx, s, opGetUserByEmail, s.stmts.selectUserIDByMail, scanUUID, strings.TrimSpace(email))
	if err != nil || !found {
		return catalog.User{}, false, err
	}

	return s.GetUserByID(ctx, id)
}

// AllUsers scans users_by_id.
func (s *ViewStore) AllUsers(ctx context.Context) iter.Seq2[catalog.User, error] {
	return scanSeq(ctx, s, opAllUsers, s.stmts.selectAllUsers, scanUser)
}

// CountUsers counts the rows of users_by_id.
func (s *ViewStore) CountUsers(ctx context.Context) (int, error) {
	count, _, err := queryOne(ctx, s, opCountUsers, s.stmts.countUsers, scanCount)
	return count, err
}

func scanUser(rows adapters.DBRows) (catalog.User, error) {
	var (
		u            catalog.User
		rawID        string
		registeredAt any
	)

	if err := rows.Scan(
		&rawID, &u.Email, &u.FirstName, &u.LastName, &registeredAt, &u.TotalBorrows, &u.ActiveBorrows,
	); err != nil {
		return catalog.User{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return catalog.User{}, err
	}

	u.ID = id

	if u.RegisteredAt, err = decodeTime(registeredAt); err != nil {
		return catalog.User{}, err
	}

	return u, nil
}

func scanUUID(rows adapters.DBRows) (uuid.UUID, error) {
	var raw string
	if err := rows.Scan(&raw); err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(raw)
}
