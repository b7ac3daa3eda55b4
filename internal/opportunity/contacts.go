package opportunity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect"
)

const contactRoleEntity = "opportunity_contact_role"

type AddContactRoleInput struct {
	ContactID uuid.UUID
	Role      string
	IsPrimary bool
	Notes     string
}

func (s *Service) ListContactRoles(ctx context.Context, id uuid.UUID, actor Actor) (_ []*ContactRole, err error) {
	ctx, end := s.span(ctx, "ListContactRoles", attribute.String("opportunity.id", id.String()))
	defer end(&err)

	if _, err := s.visible(ctx, id, actor); err != nil {
		return nil, err
	}

	roles, err := s.repo.ListContactRoles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing contact roles: %w", err)
	}

	return roles, nil
}

// AddContactRole upserts the contact's role on the opportunity. Marking it
// primary demotes any other primary contact and mirrors the contact onto the
// opportunity's PrimaryContactID.
func (s *Service) AddContactRole(ctx context.Context, id uuid.UUID, in AddContactRoleInput, actor Actor) (_ *ContactRole, err error) {
	ctx, end := s.span(ctx, "AddContactRole",
		attribute.String("opportunity.id", id.String()),
		attribute.String("contact.id", in.ContactID.String()),
	)
	defer end(&err)

	if in.ContactID == uuid.Nil {
		return nil, fieldError("contact_id", "is required")
	}

	role := &ContactRole{
		ID:            uuid.New(),
		OpportunityID: id,
		ContactID:     in.ContactID,
		Role:          strings.TrimSpace(in.Role),
		IsPrimary:     in.IsPrimary,
		Notes:         in.Notes,
		CreatedAt:     s.now(),
	}

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		if in.IsPrimary {
			if err := tx.ClearPrimaryContactRoles(ctx, o.ID, in.ContactID); err != nil {
				return fmt.Errorf("clearing primary contact: %w", err)
			}
		}

		if err := tx.UpsertContactRole(ctx, role); err != nil {
			return fmt.Errorf("saving contact role: %w", err)
		}

		primary := o.PrimaryContactID

		switch {
		case in.IsPrimary:
			primary = new(in.ContactID)
		case o.PrimaryContactID != nil && *o.PrimaryContactID == in.ContactID:
			primary = nil
		}

		if !sameID(primary, o.PrimaryContactID) {
			o.PrimaryContactID = primary

			if err := tx.UpdateOpportunity(ctx, o); err != nil {
				return fmt.Errorf("updating primary contact: %w", err)
			}
		}

		q.Audit(sideeffect.AuditEntry{
			EntityType: contactRoleEntity,
			EntityID:   role.ID,
			Action:     "upsert",
			NewValues: map[string]any{
				"opportunity_id": o.ID.String(),
				"contact_id":     in.ContactID.String(),
				"role":           role.Role,
				"is_primary":     role.IsPrimary,
			},
			ChangedBy: actor.ID,
		})
		q.Activity(sideeffect.Activity{
			EntityType:   entityType,
			EntityID:     o.ID,
			ActivityType: "contact_role_added",
			Title:        "Contact added to " + o.Name,
			Metadata:     map[string]any{"contact_id": in.ContactID.String(), "role": role.Role},
			PerformedBy:  actor.ID,
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// RemoveContactRole deletes the association. If it was the primary contact,
// PrimaryContactID is cleared and not reassigned.
func (s *Service) RemoveContactRole(ctx context.Context, id, contactID uuid.UUID, actor Actor) (err error) {
	ctx, end := s.span(ctx, "RemoveContactRole",
		attribute.String("opportunity.id", id.String()),
		attribute.String("contact.id", contactID.String()),
	)
	defer end(&err)

	_, err = s.mutate(ctx, id, actor, func(ctx context.Context, tx Tx, o *Opportunity, q *sideeffect.Queue) error {
		removed, err := tx.DeleteContactRole(ctx, o.ID, contactID)
		if err != nil {
			return err
		}

		if removed.IsPrimary || (o.PrimaryContactID != nil && *o.PrimaryContactID == contactID) {
			o.PrimaryContactID = nil

			if err := tx.UpdateOpportunity(ctx, o); err != nil {
				return fmt.Errorf("clearing primary contact: %w", err)
			}
		}

		q.Audit(sideeffect.AuditEntry{
			EntityType: contactRoleEntity,
			EntityID:   removed.ID,
			Action:     "delete",
			PreviousValues: map[string]any{
				"opportunity_id": o.ID.String(),
				"contact_id":     contactID.String(),
				"role":           removed.Role,
				"is_primary":     removed.IsPrimary,
			},
			ChangedBy: actor.ID,
		})

		return nil
	})

	return err
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
