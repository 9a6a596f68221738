package location

import (
	"context"

	"open-producten/internal/domain"
)

// Repository stores locations, organisations with their lookup tables, and
// contacts.
type Repository interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	SaveLocation(ctx context.Context, l domain.Location) (*domain.Location, error)
	DeleteLocation(ctx context.Context, id string) error

	ListOrganisations(ctx context.Context) ([]domain.Organisation, error)
	GetOrganisation(ctx context.Context, id string) (*domain.Organisation, error)
	SaveOrganisation(ctx context.Context, o domain.Organisation) (*domain.Organisation, error)
	DeleteOrganisation(ctx context.Context, id string) error

	ListOrganisationTypes(ctx context.Context) ([]domain.OrganisationType, error)
	SaveOrganisationType(ctx context.Context, t domain.OrganisationType) (*domain.OrganisationType, error)
	DeleteOrganisationType(ctx context.Context, id string) error

	ListNeighbourhoods(ctx context.Context) ([]domain.Neighbourhood, error)
	SaveNeighbourhood(ctx context.Context, n domain.Neighbourhood) (*domain.Neighbourhood, error)
	DeleteNeighbourhood(ctx context.Context, id string) error

	ListContacts(ctx context.Context) ([]domain.Contact, error)
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	SaveContact(ctx context.Context, c domain.Contact) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}
