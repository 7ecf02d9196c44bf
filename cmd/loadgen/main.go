// Command loadgen fires concurrent one-unit sales at a single variant and
// reports how many settled versus how many were refused for stock. With M
// units on hand and N > M buyers exactly M sales must succeed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/auth"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/config"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/logger"
	"github.com/realmfikri/pos-shoestore/pkg/posclient"
)

// jwtTokens mints tokens locally with the server's signing secret
type jwtTokens struct {
	svc     *auth.JWTService
	actorID string
	mu      sync.Mutex
	token   string
}

func (t *jwtTokens) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	token := t.token
	t.mu.Unlock()
	if token != "" {
		return token, nil
	}
	return t.Refresh(ctx)
}

func (t *jwtTokens) Refresh(context.Context) (string, error) {
	tok, err := t.svc.Issue(auth.IssueInput{ActorID: t.actorID, Name: "loadgen", Role: auth.RoleCashier})
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	t.token = tok.Token
	t.mu.Unlock()
	return tok.Token, nil
}

type result struct {
	succeeded    atomic.Int64
	outOfStock   atomic.Int64
	conflicts    atomic.Int64
	otherFailure atomic.Int64
}

func main() {
	var (
		baseURL   string
		variantID string
		buyers    int
		seed      int64
		timeout   time.Duration
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "POS server base URL")
	flag.StringVar(&variantID, "variant", "", "Variant to sell; empty creates a fresh one")
	flag.IntVar(&buyers, "n", 50, "Number of concurrent one-unit sales")
	flag.Int64Var(&seed, "stock", 10, "Initial stock for a freshly created variant")
	flag.DurationVar(&timeout, "timeout", time.Minute, "Overall run timeout")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	tokens := &jwtTokens{svc: auth.NewJWTService(cfg.JWT), actorID: uuid.NewString()}
	client := posclient.New(baseURL, tokens, posclient.WithLogger(log))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if variantID == "" {
		variantID, err = seedVariant(ctx, client, seed)
		if err != nil {
			log.Fatal("Failed to seed variant", zap.Error(err))
		}
		log.Info("Seeded variant", zap.String("variant_id", variantID), zap.Int64("stock", seed))
	}

	variant, err := client.GetVariant(ctx, variantID)
	if err != nil {
		log.Fatal("Failed to load variant", zap.Error(err))
	}
	log.Info("Starting load",
		zap.String("variant_id", variant.ID),
		zap.String("sku", variant.SKU),
		zap.Int64("on_hand", variant.OnHand),
		zap.Int("buyers", buyers),
	)

	var (
		res   result
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	began := time.Now()
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := client.CompleteSale(ctx, uuid.NewString(), posclient.SaleRequest{
				Lines:    []posclient.SaleLine{{VariantID: variant.ID, Quantity: 1, UnitPriceCents: variant.PriceCents}},
				Payments: []posclient.Payment{{Method: "CARD", AmountCents: variant.PriceCents}},
			})
			switch code := posclient.ErrorCode(err); {
			case err == nil:
				res.succeeded.Add(1)
			case code == shared.CodeInsufficientStock:
				res.outOfStock.Add(1)
			case code == shared.CodeConcurrencyConflict:
				res.conflicts.Add(1)
			default:
				res.otherFailure.Add(1)
				log.Warn("Sale failed", zap.Error(err))
			}
		}()
	}
	close(start)
	wg.Wait()

	after, err := client.GetOnHand(ctx, variant.ID)
	if err != nil {
		log.Fatal("Failed to read final on-hand", zap.Error(err))
	}

	log.Info("Load finished",
		zap.Duration("elapsed", time.Since(began)),
		zap.Int64("succeeded", res.succeeded.Load()),
		zap.Int64("insufficient_stock", res.outOfStock.Load()),
		zap.Int64("concurrency_conflict", res.conflicts.Load()),
		zap.Int64("other_failures", res.otherFailure.Load()),
		zap.Int64("on_hand_before", variant.OnHand),
		zap.Int64("on_hand_after", after.OnHand),
	)

	if after.OnHand < 0 || variant.OnHand-res.succeeded.Load() != after.OnHand {
		log.Error("Stock does not reconcile with settled sales")
		os.Exit(2)
	}
}

func seedVariant(ctx context.Context, client *posclient.Client, stock int64) (string, error) {
	product, err := client.CreateProduct(ctx, posclient.CreateProductRequest{
		Name:     "Loadgen Runner",
		Brand:    "Loadgen",
		Category: "test",
	})
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	variant, err := client.CreateVariant(ctx, product.ID, posclient.CreateVariantRequest{
		SKU:        "LG-" + uuid.NewString()[:8],
		Size:       "42",
		PriceCents: 100_000,
		CostCents:  60_000,
	})
	if err != nil {
		return "", fmt.Errorf("create variant: %w", err)
	}
	if stock > 0 {
		if _, err := client.RecordInitialStock(ctx, variant.ID, stock, "loadgen seed"); err != nil {
			return "", fmt.Errorf("record initial stock: %w", err)
		}
	}
	return variant.ID, nil
}
