package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/memory"
)

func TestCreateAndListPlants(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	ctx := context.Background()

	p, err := svc.CreatePlant(ctx, models.Plant{CommonName: " River red gum ", VarietyCode: "euc", DefaultPrice: 6.5})
	require.NoError(t, err)
	assert.NotEmpty(t, p.PlantID)
	assert.Equal(t, "River red gum", p.CommonName)
	assert.Equal(t, "EUC", p.VarietyCode)

	_, err = svc.CreatePlant(ctx, models.Plant{VarietyCode: "GRV"})
	require.ErrorIs(t, err, models.ErrValidation)

	plants, err := svc.ListPlants(ctx)
	require.NoError(t, err)
	assert.Len(t, plants, 1)
}

func TestCreateCustomerValidatesEmailAndTerms(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, models.Customer{Name: "Jo", Email: "not-an-email"})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	_, err = svc.CreateCustomer(ctx, models.Customer{Name: "Jo", PaymentTermsDays: 400})
	require.ErrorIs(t, err, models.ErrValidation)

	c, err := svc.CreateCustomer(ctx, models.Customer{CustomerID: "c-1", Name: "Jo", Email: "jo@example.com", PaymentTermsDays: 14})
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.CustomerID)

	loaded, err := svc.GetCustomer(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 14, loaded.PaymentTermsDays)
}

func TestProductsActiveFilter(t *testing.T) {
	st := memory.NewStore()
	svc := NewService(st, nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, models.ProductOrService{Name: "Potting mix", ItemType: models.ItemProduct, PricePerUnit: 12})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, models.ProductOrService{Name: "Plant plate", ItemType: models.ItemPlantBatch})
	require.ErrorIs(t, err, models.ErrValidation)

	active, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Active)
}

func TestSupplierCodesAreUnique(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	ctx := context.Background()

	_, err := svc.CreateSupplier(ctx, models.Supplier{Name: "Acacia Seeds", SupplierCode: "asc"})
	require.NoError(t, err)

	_, err = svc.CreateSupplier(ctx, models.Supplier{Name: "Another", SupplierCode: "ASC"})
	require.ErrorIs(t, err, models.ErrValidation)

	suppliers, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "ASC", suppliers[0].SupplierCode)
}

func TestCreateChemicalChecksSupplier(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	ctx := context.Background()

	chem := models.Chemical{Name: "Neem oil", ActiveIngredient: "azadirachtin", Type: "insecticide", SupplierID: "sup-x"}
	_, err := svc.CreateChemical(ctx, chem)
	require.ErrorIs(t, err, models.ErrNotFound)

	sup, err := svc.CreateSupplier(ctx, models.Supplier{SupplierID: "sup-x", Name: "Agri", SupplierCode: "AGR"})
	require.NoError(t, err)
	chem.SupplierID = sup.SupplierID

	created, err := svc.CreateChemical(ctx, chem)
	require.NoError(t, err)

	chemicals, err := svc.ListChemicals(ctx)
	require.NoError(t, err)
	require.Len(t, chemicals, 1)
	assert.Equal(t, created.ChemicalID, chemicals[0].ChemicalID)
}
