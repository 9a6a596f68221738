package location

import (
	"context"
	"errors"
	"testing"

	"open-producten/internal/domain"
	"open-producten/internal/testdb"
)

func TestPostgres_OrganisationsAndContacts(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(ctx, t), nil)

	typ, err := repo.SaveOrganisationType(ctx, domain.OrganisationType{Name: "gemeente"})
	if err != nil {
		t.Fatalf("SaveOrganisationType: %v", err)
	}
	org, err := repo.SaveOrganisation(ctx, domain.Organisation{
		Address: domain.Address{Name: "Gemeente Woerden", Postcode: "3441 ER", City: "Woerden"},
		Slug:    "woerden",
		TypeID:  typ.ID,
	})
	if err != nil {
		t.Fatalf("SaveOrganisation: %v", err)
	}
	if org.NeighbourhoodID != "" || org.TypeID != typ.ID {
		t.Fatalf("unexpected organisation %+v", org)
	}

	_, err = repo.SaveOrganisation(ctx, domain.Organisation{
		Address: domain.Address{Postcode: "3441 ER", City: "Woerden"},
		Slug:    "other",
		TypeID:  "00000000-0000-0000-0000-000000000000",
	})
	var batch *domain.BatchError
	if !errors.As(err, &batch) || batch.Field != "typeId" {
		t.Fatalf("expected a typeId field error, got %v", err)
	}

	_, err = repo.SaveOrganisation(ctx, domain.Organisation{Address: org.Address, Slug: "woerden", TypeID: typ.ID})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for a duplicate slug, got %v", err)
	}

	contact, err := repo.SaveContact(ctx, domain.Contact{OrganisationID: org.ID, FirstName: "Bob", LastName: "de Vries"})
	if err != nil {
		t.Fatalf("SaveContact: %v", err)
	}

	// deleting the organisation keeps the contact
	if err := repo.DeleteOrganisation(ctx, org.ID); err != nil {
		t.Fatalf("DeleteOrganisation: %v", err)
	}
	got, err := repo.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.OrganisationID != "" {
		t.Fatalf("expected contact to be detached, got %+v", got)
	}
}

func TestPostgres_LocationRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(ctx, t), nil)

	l, err := repo.SaveLocation(ctx, domain.Location{Address: domain.Address{Name: "Stadhuis", Street: "Keizersgracht", HouseNumber: "117", Postcode: "1015 CJ", City: "Amsterdam"}})
	if err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	l.City = "Utrecht"
	if _, err := repo.SaveLocation(ctx, *l); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetLocation(ctx, l.ID)
	if err != nil || got.City != "Utrecht" || got.Line() != "Keizersgracht 117, 1015CJ Utrecht" {
		t.Fatalf("unexpected location %+v (%v)", got, err)
	}

	if err := repo.DeleteLocation(ctx, l.ID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if _, err := repo.GetLocation(ctx, l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.SaveLocation(ctx, *l); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating a deleted location, got %v", err)
	}
}
