package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/trivia-wager/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Bank holds the categorized question lists, loaded once at startup and
// read-only for the process lifetime.
type Bank struct {
	byCategory map[string][]models.TriviaQuestion
	categories []string
}

// Load reads every .json file in dir; each file holds the question list for
// one category. A missing directory yields an empty bank rather than an
// error so the server can still come up for auth-only use.
func Load(ctx context.Context, dir string) (*Bank, error) {
	b := &Bank{byCategory: make(map[string][]models.TriviaQuestion)}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		log.Printf("WARN: questions directory not found: %s", dir)
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read questions dir: %w", err)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			questions, err := loadFile(path)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				return nil
			}
			category := questions[0].Category
			mu.Lock()
			defer mu.Unlock()
			if _, exists := b.byCategory[category]; exists {
				return fmt.Errorf("%s: category %q already loaded from another file", path, category)
			}
			b.byCategory[category] = questions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for category := range b.byCategory {
		b.categories = append(b.categories, category)
	}
	sort.Strings(b.categories)

	log.Printf("Loaded %d categories: %s", len(b.categories), strings.Join(b.categories, ", "))
	return b, nil
}

func loadFile(path string) ([]models.TriviaQuestion, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var questions []models.TriviaQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("%s: question with empty id", path)
		}
		// Each file holds exactly one category.
		if q.Category != questions[0].Category {
			return nil, fmt.Errorf("%s: question %s has category %q, file is %q", path, q.ID, q.Category, questions[0].Category)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("%s: question %s has %d options, need at least 2", path, q.ID, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, fmt.Errorf("%s: question %s has correctIndex %d out of range", path, q.ID, q.CorrectIndex)
		}
	}

	return questions, nil
}

// Categories returns all category names in sorted order.
func (b *Bank) Categories() []string {
	return b.categories
}

// QuestionsOf returns the questions for a category. Unknown categories
// return an empty list, never an error.
func (b *Bank) QuestionsOf(category string) []models.TriviaQuestion {
	return b.byCategory[category]
}

// Find looks up one question by category and ID.
func (b *Bank) Find(category, id string) (models.TriviaQuestion, bool) {
	for _, q := range b.byCategory[category] {
		if q.ID == id {
			return q, true
		}
	}
	return models.TriviaQuestion{}, false
}
