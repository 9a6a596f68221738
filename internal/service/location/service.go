// Package location manages the places, organisations and contact persons
// product pages refer citizens to.
package location

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/field"
	"open-producten/internal/metrics"
	locationrepo "open-producten/internal/repository/location"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ContactView is a contact with the organisation fallbacks resolved.
type ContactView struct {
	domain.Contact
	DisplayName string `json:"displayName"`
	// ReachEmail and ReachPhone fall back to the organisation's details.
	ReachEmail string `json:"reachEmail"`
	ReachPhone string `json:"reachPhoneNumber"`
}

// LocationView adds the rendered address line.
type LocationView struct {
	domain.Location
	AddressLine string `json:"address"`
}

type Service struct {
	repo    locationrepo.Repository
	metrics *metrics.Metrics
}

func New(repo locationrepo.Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) ListLocations(ctx context.Context) ([]LocationView, error) {
	list, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LocationView, 0, len(list))
	for _, l := range list {
		out = append(out, LocationView{Location: l, AddressLine: l.Line()})
	}
	return out, nil
}

func (s *Service) GetLocation(ctx context.Context, id string) (*LocationView, error) {
	l, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LocationView{Location: *l, AddressLine: l.Line()}, nil
}

// SaveLocation creates l when its id is empty and replaces it otherwise.
func (s *Service) SaveLocation(ctx context.Context, l domain.Location) (*LocationView, error) {
	if err := checkAddress(l.Address); err != nil {
		return nil, s.fail("location.save", err)
	}
	out, err := s.repo.SaveLocation(ctx, l)
	if err != nil {
		return nil, err
	}
	return &LocationView{Location: *out, AddressLine: out.Line()}, nil
}

func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	return s.repo.DeleteLocation(ctx, id)
}

func (s *Service) ListOrganisations(ctx context.Context) ([]domain.Organisation, error) {
	return s.repo.ListOrganisations(ctx)
}

func (s *Service) GetOrganisation(ctx context.Context, id string) (*domain.Organisation, error) {
	return s.repo.GetOrganisation(ctx, id)
}

func (s *Service) SaveOrganisation(ctx context.Context, o domain.Organisation) (*domain.Organisation, error) {
	errs := []error{checkAddress(o.Address)}
	switch {
	case o.Slug == "":
		errs = append(errs, domain.OnField("slug", domain.Invalid("This field may not be blank.")))
	case !slugPattern.MatchString(o.Slug):
		errs = append(errs, domain.OnField("slug", domain.Invalid("Enter a valid slug consisting of letters, numbers, underscores or hyphens.")))
	case utf8.RuneCountInString(o.Slug) > 100:
		errs = append(errs, domain.OnField("slug", domain.Invalid("Ensure this field has no more than 100 characters.")))
	}
	if o.TypeID == "" {
		errs = append(errs, domain.OnField("typeId", domain.Invalid("This field is required.")))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, s.fail("organisation.save", err)
	}
	return s.repo.SaveOrganisation(ctx, o)
}

func (s *Service) DeleteOrganisation(ctx context.Context, id string) error {
	return s.repo.DeleteOrganisation(ctx, id)
}

func (s *Service) ListOrganisationTypes(ctx context.Context) ([]domain.OrganisationType, error) {
	return s.repo.ListOrganisationTypes(ctx)
}

func (s *Service) SaveOrganisationType(ctx context.Context, t domain.OrganisationType) (*domain.OrganisationType, error) {
	if err := checkName(t.Name); err != nil {
		return nil, s.fail("organisationtype.save", err)
	}
	return s.repo.SaveOrganisationType(ctx, t)
}

func (s *Service) DeleteOrganisationType(ctx context.Context, id string) error {
	return s.repo.DeleteOrganisationType(ctx, id)
}

func (s *Service) ListNeighbourhoods(ctx context.Context) ([]domain.Neighbourhood, error) {
	return s.repo.ListNeighbourhoods(ctx)
}

func (s *Service) SaveNeighbourhood(ctx context.Context, n domain.Neighbourhood) (*domain.Neighbourhood, error) {
	if err := checkName(n.Name); err != nil {
		return nil, s.fail("neighbourhood.save", err)
	}
	return s.repo.SaveNeighbourhood(ctx, n)
}

func (s *Service) DeleteNeighbourhood(ctx context.Context, id string) error {
	return s.repo.DeleteNeighbourhood(ctx, id)
}

func (s *Service) ListContacts(ctx context.Context) ([]ContactView, error) {
	list, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ContactView, 0, len(list))
	for _, c := range list {
		v, err := s.view(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *Service) GetContact(ctx context.Context, id string) (*ContactView, error) {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *c)
}

func (s *Service) SaveContact(ctx context.Context, c domain.Contact) (*ContactView, error) {
	var errs []error
	for _, f := range []struct{ name, value string }{{"firstName", c.FirstName}, {"lastName", c.LastName}} {
		switch {
		case strings.TrimSpace(f.value) == "":
			errs = append(errs, domain.OnField(f.name, domain.Invalid("This field may not be blank.")))
		case utf8.RuneCountInString(f.value) > 255:
			errs = append(errs, domain.OnField(f.name, domain.Invalid("Ensure this field has no more than 255 characters.")))
		}
	}
	errs = append(errs, checkContactDetails(c.Email, c.PhoneNumber))
	if utf8.RuneCountInString(c.Role) > 100 {
		errs = append(errs, domain.OnField("role", domain.Invalid("Ensure this field has no more than 100 characters.")))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, s.fail("contact.save", err)
	}
	out, err := s.repo.SaveContact(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *out)
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	return s.repo.DeleteContact(ctx, id)
}

func (s *Service) view(ctx context.Context, c domain.Contact) (*ContactView, error) {
	var org *domain.Organisation
	if c.OrganisationID != "" {
		o, err := s.repo.GetOrganisation(ctx, c.OrganisationID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			org = o
		}
	}
	email, phone := c.ReachableAt(org)
	return &ContactView{Contact: c, DisplayName: c.DisplayName(org), ReachEmail: email, ReachPhone: phone}, nil
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("location."+op, err)
	return err
}

// checkAddress applies the postcode and phone number rules of the field
// engine to an address.
func checkAddress(a domain.Address) error {
	var errs []error
	if utf8.RuneCountInString(a.Name) > 100 {
		errs = append(errs, domain.OnField("name", domain.Invalid("Ensure this field has no more than 100 characters.")))
	}
	if a.Postcode == "" {
		errs = append(errs, domain.OnField("postcode", domain.Invalid("This field may not be blank.")))
	} else if err := field.Validate(domain.FieldTypePostcode, a.Postcode, nil); err != nil {
		errs = append(errs, domain.OnField("postcode", err))
	}
	if strings.TrimSpace(a.City) == "" {
		errs = append(errs, domain.OnField("city", domain.Invalid("This field may not be blank.")))
	}
	errs = append(errs, checkContactDetails(a.Email, a.PhoneNumber))
	return errors.Join(errs...)
}

func checkContactDetails(email, phone string) error {
	var errs []error
	if email != "" {
		if err := field.Validate(domain.FieldTypeEmail, email, nil); err != nil {
			errs = append(errs, domain.OnField("email", err))
		}
	}
	if phone != "" {
		if err := field.Validate(domain.FieldTypePhoneNumber, phone, nil); err != nil {
			errs = append(errs, domain.OnField("phoneNumber", err))
		} else if len(phone) > 15 {
			errs = append(errs, domain.OnField("phoneNumber", domain.Invalid("Ensure this field has no more than 15 characters.")))
		}
	}
	return errors.Join(errs...)
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.OnField("name", domain.Invalid("This field may not be blank."))
	case utf8.RuneCountInString(name) > 100:
		return domain.OnField("name", domain.Invalid("Ensure this field has no more than 100 characters."))
	}
	return nil
}
