package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"shop-api/internal/auth"
	"shop-api/internal/cart"
	"shop-api/internal/catalog"
	"shop-api/internal/coupon"
	"shop-api/internal/order"
	"shop-api/internal/payment"
	"shop-api/internal/stock"
	"shop-api/internal/testutil"
)

type fixture struct {
	pool    *pgxpool.Pool
	userID  string
	variant catalog.Variant
}

// seed creates a user plus a category/product/variant with the given
// stock count.
func seed(ctx context.Context, t *testing.T, pool *pgxpool.Pool, stockCount int) fixture {
	t.Helper()

	authRepo := auth.NewRepository(pool)
	u := &auth.User{Username: "alice-" + t.Name(), Email: t.Name() + "@example.com"}
	require.NoError(t, authRepo.Create(ctx, u, "hash"))

	catalogRepo := catalog.NewRepository(pool)
	cat := &catalog.Category{Name: "Apparel " + t.Name()}
	require.NoError(t, catalogRepo.CreateCategory(ctx, cat))

	p := &catalog.Product{CategoryID: cat.ID, Name: "Hoodie " + t.Name(), Price: 39.99}
	require.NoError(t, catalogRepo.CreateProduct(ctx, p))

	v := &catalog.Variant{ProductID: p.ID, Name: "size", Value: "M", Price: 42.50, StockCount: stockCount}
	require.NoError(t, catalogRepo.CreateVariant(ctx, v))

	return fixture{pool: pool, userID: u.ID, variant: *v}
}

func stockCount(ctx context.Context, t *testing.T, pool *pgxpool.Pool, variantID string) int {
	t.Helper()
	lvl, err := stock.NewRepository(pool).Available(ctx, variantID)
	require.NoError(t, err)
	return lvl.StockCount
}

func TestCartToOrderFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pool, _ := testutil.StartPostgres(ctx, t)
	fx := seed(ctx, t, pool, 10)

	cartRepo := cart.NewRepository(pool)
	orderRepo := order.NewRepository(pool)

	// adding reserves stock immediately
	it, err := cartRepo.AddItem(ctx, fx.userID, fx.variant.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, it.Quantity)
	require.Equal(t, 42.50, it.PriceAtTime)
	require.Equal(t, 7, stockCount(ctx, t, pool, fx.variant.ID))

	// a second add accumulates quantity and keeps the price snapshot
	it, err = cartRepo.AddItem(ctx, fx.userID, fx.variant.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 5, it.Quantity)
	require.Equal(t, 42.50, it.PriceAtTime)
	require.Equal(t, 5, stockCount(ctx, t, pool, fx.variant.ID))

	// shrinking the reservation returns the difference to stock
	it, err = cartRepo.UpdateItem(ctx, fx.userID, fx.variant.ID, 2, 42.50)
	require.NoError(t, err)
	require.Equal(t, 2, it.Quantity)
	require.Equal(t, 8, stockCount(ctx, t, pool, fx.variant.ID))

	// the order copies cart lines verbatim and clears the cart
	o, err := orderRepo.CreateFromCart(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, order.StatusPending, o.OrderStatus)
	require.Equal(t, order.PaymentUnpaid, o.PaymentStatus)
	require.Len(t, o.Items, 1)
	require.Equal(t, 2, o.Items[0].Quantity)
	require.Equal(t, 42.50, o.Items[0].PriceAtTime)

	c, err := cartRepo.GetOrCreate(ctx, fx.userID)
	require.NoError(t, err)
	require.Empty(t, c.Items)

	// a second checkout on the now empty cart fails
	_, err = orderRepo.CreateFromCart(ctx, fx.userID)
	require.ErrorIs(t, err, order.ErrEmptyCart)

	// recording a payment sums the lines and mirrors the order status
	paymentRepo := payment.NewRepository(pool)
	pay, err := paymentRepo.Record(ctx, fx.userID, o.ID, payment.MethodCard)
	require.NoError(t, err)
	require.Equal(t, 85.0, pay.Amount)
	require.Equal(t, order.PaymentUnpaid, pay.Status)

	// cancelling flips the status but leaves stock alone
	before := stockCount(ctx, t, pool, fx.variant.ID)
	require.NoError(t, orderRepo.Cancel(ctx, fx.userID, o.ID))
	require.ErrorIs(t, orderRepo.Cancel(ctx, fx.userID, o.ID), order.ErrAlreadyCancelled)
	require.Equal(t, before, stockCount(ctx, t, pool, fx.variant.ID))
}

func TestRemovingItemRestoresStock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pool, _ := testutil.StartPostgres(ctx, t)
	fx := seed(ctx, t, pool, 5)

	cartRepo := cart.NewRepository(pool)

	_, err := cartRepo.AddItem(ctx, fx.userID, fx.variant.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 0, stockCount(ctx, t, pool, fx.variant.ID))

	// everyone else is out of luck while the reservation holds
	_, err = cartRepo.AddItem(ctx, fx.userID, fx.variant.ID, 1)
	require.ErrorIs(t, err, cart.ErrInsufficientStock)

	// quantity 0 deletes the item and puts everything back
	it, err := cartRepo.UpdateItem(ctx, fx.userID, fx.variant.ID, 0, 0)
	require.NoError(t, err)
	require.Nil(t, it)
	require.Equal(t, 5, stockCount(ctx, t, pool, fx.variant.ID))

	_, err = cartRepo.UpdateItem(ctx, fx.userID, fx.variant.ID, 1, 42.50)
	require.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestUpdateBeyondTotalAvailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pool, _ := testutil.StartPostgres(ctx, t)
	fx := seed(ctx, t, pool, 5)

	cartRepo := cart.NewRepository(pool)

	_, err := cartRepo.AddItem(ctx, fx.userID, fx.variant.ID, 3)
	require.NoError(t, err)

	// reservation (3) + remaining stock (2) caps the update at 5
	_, err = cartRepo.UpdateItem(ctx, fx.userID, fx.variant.ID, 6, 42.50)
	require.ErrorIs(t, err, cart.ErrInsufficientStock)

	it, err := cartRepo.UpdateItem(ctx, fx.userID, fx.variant.ID, 5, 42.50)
	require.NoError(t, err)
	require.Equal(t, 5, it.Quantity)
	require.Equal(t, 0, stockCount(ctx, t, pool, fx.variant.ID))
}

func TestConcurrentAddsNeverOversell(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pool, _ := testutil.StartPostgres(ctx, t)
	fx := seed(ctx, t, pool, 5)

	authRepo := auth.NewRepository(pool)
	cartRepo := cart.NewRepository(pool)

	const buyers = 8
	userIDs := make([]string, buyers)
	for i := range userIDs {
		u := &auth.User{Username: "buyer-" + string(rune('a'+i)), Email: "buyer-" + string(rune('a'+i)) + "@example.com"}
		require.NoError(t, authRepo.Create(ctx, u, "hash"))
		userIDs[i] = u.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cartRepo.AddItem(ctx, userIDs[i], fx.variant.ID, 2)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, cart.ErrInsufficientStock)
		}
	}
	// 5 in stock, 2 per buyer: exactly two adds can fit
	require.Equal(t, 2, succeeded)
	require.Equal(t, 1, stockCount(ctx, t, pool, fx.variant.ID))
}

func TestCouponRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pool, _ := testutil.StartPostgres(ctx, t)
	fx := seed(ctx, t, pool, 5)

	couponRepo := coupon.NewRepository(pool)
	cartRepo := cart.NewRepository(pool)
	svc := coupon.NewService(couponRepo, cartRepo)

	c := &coupon.Coupon{Code: "SAVE10", DiscountAmount: 10,
		ExpirationDate: time.Now().AddDate(1, 0, 0), IsActive: true}
	require.NoError(t, couponRepo.Create(ctx, c))

	applied, err := svc.Apply(ctx, fx.userID, "SAVE10")
	require.NoError(t, err)
	require.Equal(t, c.ID, applied.ID)

	got, err := cartRepo.GetOrCreate(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.CouponID)

	_, err = svc.Apply(ctx, fx.userID, "NOPE")
	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)
}
