package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	categoryrepo "open-producten/internal/repository/category"
	locationrepo "open-producten/internal/repository/location"
	productrepo "open-producten/internal/repository/product"
	producttyperepo "open-producten/internal/repository/producttype"
	upnrepo "open-producten/internal/repository/upn"
	categorysvc "open-producten/internal/service/category"
	locationsvc "open-producten/internal/service/location"
	productsvc "open-producten/internal/service/product"
	producttypesvc "open-producten/internal/service/producttype"
	"open-producten/internal/testdb"
)

func TestCatalogRoutes_Integration(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)

	upns := upnrepo.NewPostgres(pool, nil)
	_, err := upns.Sync(ctx, []domain.UniformProductName{{Name: "parkeervergunning", URI: "http://standaarden.overheid.nl/owms/terms/parkeervergunning"}})
	require.NoError(t, err)
	list, err := upns.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	m := metrics.Nop()
	ptSvc := producttypesvc.New(producttyperepo.NewPostgres(pool, nil), upns, m)
	router := newTestRouter(Deps{
		CategorySvc:    categorysvc.New(categoryrepo.NewPostgres(pool, nil), m),
		ProductTypeSvc: ptSvc,
		ProductSvc:     productsvc.New(productrepo.NewPostgres(pool, nil), ptSvc, m),
	})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Parkeren", "published": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[domain.Category](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/producttypes", map[string]any{
		"name":                 "Parkeervergunning",
		"uniformProductNameId": list[0].ID,
		"categoryIds":          []string{cat.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pt := decode[domain.ProductType](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/producttypes/"+pt.ID+"/fields", map[string]any{
		"name": "kenteken", "type": "licenseplate", "isRequired": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	field := decode[domain.Field](t, rec)

	product := map[string]any{
		"productTypeId": pt.ID,
		"startDate":     "2024-01-01",
		"endDate":       "2025-01-01",
		"bsn":           "111222333",
		"data":          []map[string]any{{"fieldId": field.ID, "value": "AB-12-34"}},
	}
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", product)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Product](t, rec)
	require.Len(t, created.Data, 1)

	product["data"] = []map[string]any{{"fieldId": field.ID, "value": "not a plate"}}
	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", product)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data"`)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories/"+cat.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{pt.ID}, decode[domain.Category](t, rec).ProductTypeIDs)

	// data is replaced as a whole: the existing value is updated in place
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+created.ID, map[string]any{
		"data": []map[string]any{{"id": created.Data[0].ID, "value": "XX-99-YY"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.Product](t, rec)
	require.Len(t, updated.Data, 1)
	assert.Equal(t, created.Data[0].ID, updated.Data[0].ID)
	assert.Equal(t, "XX-99-YY", updated.Data[0].Value)

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/products/"+created.ID, map[string]any{
		"data": []map[string]any{{"id": "00000000-0000-0000-0000-000000000000", "value": "AB-12-34"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestUnknownReferencesAreFieldErrors_Integration(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)

	upns := upnrepo.NewPostgres(pool, nil)
	_, err := upns.Sync(ctx, []domain.UniformProductName{{Name: "paspoort", URI: "http://standaarden.overheid.nl/owms/terms/paspoort"}})
	require.NoError(t, err)
	list, err := upns.List(ctx, false)
	require.NoError(t, err)

	m := metrics.Nop()
	router := newTestRouter(Deps{
		CategorySvc:    categorysvc.New(categoryrepo.NewPostgres(pool, nil), m),
		ProductTypeSvc: producttypesvc.New(producttyperepo.NewPostgres(pool, nil), upns, m),
	})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/producttypes", map[string]any{
		"name":                 "Paspoort",
		"uniformProductNameId": list[0].ID,
		"categoryIds":          []string{"00000000-0000-0000-0000-000000000000", "not-a-uuid"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decode[map[string][]string](t, rec)
	assert.Len(t, body["categoryIds"], 2)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]any{
		"name":           "Reizen",
		"productTypeIds": []string{"00000000-0000-0000-0000-000000000000"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"productTypeIds"`)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "rejected create must roll back")
}

func TestLocationRoutes_Integration(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)
	router := newTestRouter(Deps{LocationSvc: locationsvc.New(locationrepo.NewPostgres(pool, nil), metrics.Nop())})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/organisationtypes", map[string]any{"name": "gemeente"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	typ := decode[domain.OrganisationType](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/organisations", map[string]any{
		"name": "Test Org", "email": "org@gmail.com", "phoneNumber": "123456789",
		"postcode": "3441 ER", "city": "Woerden", "slug": "test-org", "typeId": typ.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	org := decode[domain.Organisation](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/contacts", map[string]any{
		"organisationId": org.ID, "firstName": "Bob", "lastName": "de Vries",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contact := decode[locationsvc.ContactView](t, rec)
	assert.Equal(t, "Test Org: Bob de Vries", contact.DisplayName)
	assert.Equal(t, "org@gmail.com", contact.ReachEmail)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/locations", map[string]any{"postcode": "0000 AA", "city": "Woerden"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postcode"`)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/locations/00000000-0000-0000-0000-000000000000", map[string]any{"postcode": "3441 ER", "city": "Woerden"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
