package httpserver

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"open-producten/internal/domain"
	categorysvc "open-producten/internal/service/category"
	locationsvc "open-producten/internal/service/location"
	pricesvc "open-producten/internal/service/price"
	productsvc "open-producten/internal/service/product"
	producttypesvc "open-producten/internal/service/producttype"
	questionrepo "open-producten/internal/repository/question"
)

// Deps carries the services the router dispatches to.
type Deps struct {
	CategorySvc    CategoryService
	ProductTypeSvc ProductTypeService
	ProductSvc     ProductService
	PriceSvc       PriceService
	QuestionSvc    QuestionService
	TagSvc         TagService
	ConditionSvc   ConditionService
	LocationSvc    LocationService
	FileSvc        FileService
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Parent(ctx context.Context, id string) (*domain.Category, error)
	Children(ctx context.Context, id string) ([]domain.Category, error)
	Roots(ctx context.Context) ([]domain.Category, error)
	Ancestors(ctx context.Context, id string) ([]domain.Category, error)
	Descendants(ctx context.Context, id string) ([]domain.Category, error)
	Create(ctx context.Context, in categorysvc.CreateInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in categorysvc.UpdateInput) (*domain.Category, error)
	Move(ctx context.Context, id, targetID string, pos categorysvc.Position) error
	SetPublished(ctx context.Context, id string, published bool) (*domain.Category, error)
	BatchSetPublished(ctx context.Context, changes []categorysvc.PublishChange) error
	Delete(ctx context.Context, id string) error
}

type ProductTypeService interface {
	List(ctx context.Context) ([]domain.ProductType, error)
	Get(ctx context.Context, id string) (*domain.ProductType, error)
	ListUPNs(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error)
	Create(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error)
	Update(ctx context.Context, id string, in producttypesvc.UpdateInput) (*domain.ProductType, error)
	Delete(ctx context.Context, id string) error

	ListFields(ctx context.Context, productTypeID string) ([]domain.Field, error)
	GetField(ctx context.Context, id string) (*domain.Field, error)
	CreateField(ctx context.Context, f domain.Field) (*domain.Field, error)
	UpdateField(ctx context.Context, id string, in producttypesvc.FieldUpdate) (*domain.Field, error)
	DeleteField(ctx context.Context, id string) error

	ListLinks(ctx context.Context, productTypeID string) ([]domain.Link, error)
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	CreateLink(ctx context.Context, l domain.Link) (*domain.Link, error)
	UpdateLink(ctx context.Context, l domain.Link) (*domain.Link, error)
	DeleteLink(ctx context.Context, id string) error
}

type ProductService interface {
	List(ctx context.Context, productTypeID string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type PriceService interface {
	List(ctx context.Context, productTypeID string) ([]domain.Price, error)
	Get(ctx context.Context, id string) (*domain.Price, error)
	Current(ctx context.Context, productTypeID string) (*domain.Price, error)
	Create(ctx context.Context, productTypeID string, startDate time.Time, options []pricesvc.OptionInput) (*domain.Price, error)
	Update(ctx context.Context, id string, in pricesvc.UpdateInput) (*domain.Price, error)
	Delete(ctx context.Context, id string) error
}

type QuestionService interface {
	List(ctx context.Context, owner questionrepo.Owner) ([]domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, q domain.Question) (*domain.Question, error)
	Update(ctx context.Context, id string, question, answer *string) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}

type TagService interface {
	ListTypes(ctx context.Context) ([]domain.TagType, error)
	GetType(ctx context.Context, id string) (*domain.TagType, error)
	CreateType(ctx context.Context, t domain.TagType) (*domain.TagType, error)
	UpdateType(ctx context.Context, t domain.TagType) (*domain.TagType, error)
	DeleteType(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id string) (*domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}

type ConditionService interface {
	List(ctx context.Context) ([]domain.Condition, error)
	Get(ctx context.Context, id string) (*domain.Condition, error)
	Create(ctx context.Context, c domain.Condition) (*domain.Condition, error)
	Update(ctx context.Context, c domain.Condition) (*domain.Condition, error)
	Delete(ctx context.Context, id string) error
}

type LocationService interface {
	ListLocations(ctx context.Context) ([]locationsvc.LocationView, error)
	GetLocation(ctx context.Context, id string) (*locationsvc.LocationView, error)
	SaveLocation(ctx context.Context, l domain.Location) (*locationsvc.LocationView, error)
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

	ListContacts(ctx context.Context) ([]locationsvc.ContactView, error)
	GetContact(ctx context.Context, id string) (*locationsvc.ContactView, error)
	SaveContact(ctx context.Context, c domain.Contact) (*locationsvc.ContactView, error)
	DeleteContact(ctx context.Context, id string) error
}

type FileService interface {
	List(ctx context.Context, productTypeID string) ([]domain.File, error)
	Get(ctx context.Context, productTypeID, id string) (*domain.File, error)
	Upload(ctx context.Context, productTypeID, name, contentType string, content []byte) (*domain.File, error)
	Delete(ctx context.Context, productTypeID, id string) error
}
