package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stewardhq/steward/internal/catalog"
	"github.com/stewardhq/steward/internal/config"
	"github.com/stewardhq/steward/internal/content"
	"github.com/stewardhq/steward/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo content and a bootstrap admin account",
	RunE:  runSeed,
}

var seedAdminEmail, seedAdminPassword string

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@example.com", "email of the bootstrap admin")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password of the bootstrap admin (required)")
	rootCmd.AddCommand(seedCmd)
}

var demoPosts = []content.CreatePostInput{
	{
		Title:  "Welcome to Steward",
		Slug:   "welcome-to-steward",
		Body:   "This is the first post managed through the Steward admin dashboard.",
		Status: "published",
	},
	{
		Title:  "Choosing a Broker in 2026",
		Slug:   "choosing-a-broker-2026",
		Body:   "Regulation, fees, and platform quality are the three things to compare.",
		Status: "published",
	},
	{
		Title:  "Draft: Upcoming Product Reviews",
		Slug:   "upcoming-product-reviews",
		Body:   "Outline for the next review cycle.",
		Status: "draft",
	},
}

var demoBrokers = []catalog.CreateBrokerInput{
	{Name: "Northline Markets", Website: "https://northline.example.com", Rating: 4.6, Regulation: "FCA", MinDeposit: 100, Featured: true},
	{Name: "Atlas Trading", Website: "https://atlas.example.com", Rating: 4.2, Regulation: "CySEC", MinDeposit: 50},
	{Name: "Harborview Securities", Website: "https://harborview.example.com", Rating: 3.9, Regulation: "ASIC", MinDeposit: 250},
}

var demoProducts = []catalog.CreateProductInput{
	{Name: "Starter Charting Bundle", Category: "software", Price: 29.99, Stock: 500, Active: true},
	{Name: "Pro Signals Subscription", Category: "subscription", Price: 99.00, Stock: 0, Active: true},
	{Name: "Hardware Security Key", Category: "hardware", Price: 45.50, Stock: 120, Active: false},
}

var demoBanners = []content.CreateBannerInput{
	{Title: "Spring promotion", ImageURL: "https://cdn.example.com/banners/spring.png", TargetURL: "https://example.com/promo", Placement: "home", Active: true},
	{Title: "Newsletter signup", ImageURL: "https://cdn.example.com/banners/newsletter.png", TargetURL: "https://example.com/newsletter", Placement: "sidebar", Active: false},
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedAdminPassword == "" {
		return fmt.Errorf("--admin-password is required")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool, cfg.Auth.SessionTTL)
	contentStore := content.NewStore(pool)
	catalogStore := catalog.NewStore(pool)

	// Check if seed has already run.
	existing, err := contentStore.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("checking existing posts: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	admin, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		FullName: "Bootstrap Admin",
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	slog.Info("created admin", "email", admin.Email, "id", admin.ID)

	for i := range demoPosts {
		demoPosts[i].AuthorID = admin.ID
		p, err := contentStore.CreatePost(ctx, demoPosts[i])
		if err != nil {
			return fmt.Errorf("creating post %q: %w", demoPosts[i].Title, err)
		}
		slog.Info("created post", "title", p.Title, "id", p.ID)
	}
	for _, input := range demoBrokers {
		b, err := catalogStore.CreateBroker(ctx, input)
		if err != nil {
			return fmt.Errorf("creating broker %q: %w", input.Name, err)
		}
		slog.Info("created broker", "name", b.Name, "id", b.ID)
	}
	for _, input := range demoProducts {
		p, err := catalogStore.CreateProduct(ctx, input)
		if err != nil {
			return fmt.Errorf("creating product %q: %w", input.Name, err)
		}
		slog.Info("created product", "name", p.Name, "id", p.ID)
	}
	for _, input := range demoBanners {
		b, err := contentStore.CreateBanner(ctx, input)
		if err != nil {
			return fmt.Errorf("creating banner %q: %w", input.Title, err)
		}
		slog.Info("created banner", "title", b.Title, "id", b.ID)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Admin:    %s\n", admin.Email)
	fmt.Printf("Posts:    %d\n", len(demoPosts))
	fmt.Printf("Brokers:  %d\n", len(demoBrokers))
	fmt.Printf("Products: %d\n", len(demoProducts))
	fmt.Printf("Banners:  %d\n", len(demoBanners))
	fmt.Printf("\nSign in at http://localhost:%d/ with the admin credentials.\n", cfg.Server.Port)

	return nil
}
