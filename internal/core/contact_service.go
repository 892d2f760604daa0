package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactService is the contact directory: the single canonical customer
// list the order aggregate references.
type ContactService interface {
	CreateContact(ctx context.Context, name, email, phone, address, notes string) (*Contact, error)
	UpdateContact(ctx context.Context, id int, name, email, phone, address, notes string) (*Contact, error)
	GetContact(ctx context.Context, id int) (*Contact, error)
	ListContacts(ctx context.Context, search string) ([]Contact, error)
}

type contactService struct {
	pool *pgxpool.Pool
}

func NewContactService(pool *pgxpool.Pool) ContactService {
	return &contactService{pool: pool}
}

const contactColumns = "id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), COALESCE(notes, ''), created_at"

func (s *contactService) CreateContact(ctx context.Context, name, email, phone, address, notes string) (*Contact, error) {
	if name == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	var c Contact
	err := s.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, address, notes)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		RETURNING `+contactColumns,
		name, email, phone, address, notes,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return &c, nil
}

func (s *contactService) UpdateContact(ctx context.Context, id int, name, email, phone, address, notes string) (*Contact, error) {
	if name == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	var c Contact
	err := s.pool.QueryRow(ctx, `
		UPDATE contacts
		SET name = $2, email = NULLIF($3, ''), phone = NULLIF($4, ''), address = NULLIF($5, ''), notes = NULLIF($6, '')
		WHERE id = $1
		RETURNING `+contactColumns,
		id, name, email, phone, address, notes,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	return &c, nil
}

func (s *contactService) GetContact(ctx context.Context, id int) (*Contact, error) {
	var c Contact
	err := s.pool.QueryRow(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: contact %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch contact %d: %w", id, err)
	}
	return &c, nil
}

func (s *contactService) ListContacts(ctx context.Context, search string) ([]Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts"
	args := []any{}
	if search != "" {
		query += " WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'"
		args = append(args, search)
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
