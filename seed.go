package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ==== JSON input structures ====

type CategoryInput struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

type QuestionInput struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int    `json:"category"`
}

type SeedFile struct {
	Categories []CategoryInput `json:"categories"`
	Questions  []QuestionInput `json:"questions"`
}

// ==== Seeder ====

func SeedFromJSON(ctx context.Context, store *GormStore, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in SeedFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("json parse: %w", err)
	}

	// Basic validation: unique category ids, non-empty question fields
	seen := map[int]bool{}
	dups := []int{}
	for _, c := range in.Categories {
		if seen[c.ID] {
			dups = append(dups, c.ID)
		}
		seen[c.ID] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("duplicate category IDs in JSON: %v", dups)
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("question #%d: question and answer are required", i+1)
		}
	}

	cs := make([]Category, 0, len(in.Categories))
	for _, c := range in.Categories {
		cs = append(cs, Category{ID: c.ID, Type: c.Type})
	}
	qs := make([]Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		qs = append(qs, Question{
			Text:       q.Question,
			Answer:     q.Answer,
			Difficulty: q.Difficulty,
			CategoryID: q.Category,
		})
	}

	if err := store.SeedCategories(ctx, cs); err != nil {
		return err
	}
	return store.SeedQuestions(ctx, qs)
}

var (
	seedPath  string
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories and questions from a JSON fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := appConfig, appLogger
		if seedPath == "" {
			seedPath = cfg.SeedFile
		}

		db, err := OpenDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := AutoMigrate(db); err != nil {
			return err
		}
		isEmpty, err := IsQuestionTableEmpty(db)
		if err != nil {
			return err
		}
		if !isEmpty && !seedForce {
			return fmt.Errorf("questions table is not empty; use --force to seed anyway")
		}
		if err := SeedFromJSON(cmd.Context(), NewGormStore(db), seedPath); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("seeded questions", "path", seedPath)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "", "seed file (defaults to seed_file from config)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even if questions already exist")
}
