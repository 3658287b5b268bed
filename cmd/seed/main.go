package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4"

	"activation-admin/internal/config"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	pg "activation-admin/internal/infra/db/postgres"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	codes := pg.NewActivationCodeRepo(pool)
	books := pg.NewEBookRepo(pool)
	txm := pg.NewTxManager(pool)

	// If codes already exist, do nothing
	n, err := codes.Count(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("count codes: %v", err)
	}
	if n > 0 {
		fmt.Printf("%d activation codes already present. No changes.\n", n)
		return
	}

	customers := []struct {
		Name   string
		Phone  string
		Email  string
		AgeDay int
		Device string
	}{
		{"Amadou Diallo", "+221 77 123 45 67", "amadou@example.com", 0, "ios-3f9a"},
		{"Fatou Ndiaye", "+221 76 555 01 02", "", 1, ""},
		{"Moussa Sarr", "00221 70 987 65 43", "moussa@example.com", 2, "android-77c1"},
		{"Awa Ba", "+33 6 12 34 56 78", "awa@example.fr", 4, ""},
		{"", "+212 6 61 22 33 44", "", 6, "android-0b22"},
	}
	library := []struct {
		Title    string
		Author   string
		Category string
		FileURL  string
		Pages    int
	}{
		{"Hisn al-Muslim", "Sa'id al-Qahtani", "Invocations", "https://cdn.example.com/ebooks/hisn.pdf", 120},
		{"Riyad as-Salihin", "An-Nawawi", "Hadith", "https://cdn.example.com/ebooks/riyad.pdf", 640},
		{"Le jeûne du Ramadan", "", "Ramadan", "https://cdn.example.com/ebooks/jeune.epub", 0},
	}

	now := time.Now()
	err = txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		for i, c := range customers {
			created := now.Add(-time.Duration(c.AgeDay) * 24 * time.Hour)
			var name, email *string
			if c.Name != "" {
				name = strPtr(c.Name)
			} else {
				name = strPtr(model.ManualEntryName)
			}
			if c.Email != "" {
				email = strPtr(c.Email)
			}
			code, err := model.NewActivationCode(fmt.Sprintf("SEED-%03d", i+1), c.Phone, name, email, created)
			if err != nil {
				return fmt.Errorf("build code %q: %w", c.Phone, err)
			}
			if c.Device != "" {
				if err := code.Redeem(c.Device, created.Add(time.Hour)); err != nil {
					return err
				}
			}
			if err := codes.Create(ctx, tx, code); err != nil {
				return err
			}
			fmt.Printf("seeded code: %s (phone=%s, order=%s, used=%t)\n", code.ID, code.Phone, code.OrderID, code.Used)
		}

		for _, b := range library {
			var author *string
			var pages *int
			if b.Author != "" {
				author = strPtr(b.Author)
			}
			if b.Pages > 0 {
				pages = intPtr(b.Pages)
			}
			book, err := model.NewEBook(b.Title, b.Category, b.FileURL, author, nil, nil, pages, now)
			if err != nil {
				return fmt.Errorf("build ebook %q: %w", b.Title, err)
			}
			if err := books.Create(ctx, tx, book); err != nil {
				return err
			}
			fmt.Printf("seeded ebook: %s (id=%s, category=%s)\n", book.Title, book.ID, book.Category)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Println("✅ Seeding complete.")
}
