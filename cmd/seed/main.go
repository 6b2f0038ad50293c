// Command seed populates the database with a synthetic development dataset:
// registered users, phone books partly linked to those users, and spam
// reports. Running it twice is safe; existing rows are left alone.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"truedial/internal/config"
	"truedial/internal/contact"
	contactrepo "truedial/internal/contact/repository"
	"truedial/internal/db"
	"truedial/internal/security"
	"truedial/internal/spam"
	spamrepo "truedial/internal/spam/repository"
	userdomain "truedial/internal/user/domain"
	userrepo "truedial/internal/user/repository"
)

// seedPassword is the login password for every seeded account.
const seedPassword = "password123"

var firstNames = []string{
	"Alice", "Bob", "Carol", "David", "Erin", "Frank", "Grace", "Heidi",
	"Ivan", "Judy", "Mallory", "Niaj", "Olivia", "Peggy", "Quentin",
	"Rupert", "Sybil", "Trent", "Uma", "Victor", "Wendy", "Xavier",
	"Yolanda", "Zach",
}

var lastNames = []string{
	"Anderson", "Brown", "Clark", "Davis", "Evans", "Garcia", "Harris",
	"Jackson", "King", "Lewis", "Martin", "Nelson", "Parker", "Quinn",
	"Roberts", "Smith", "Taylor", "Walker",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	contacts := contactrepo.NewPostgresRepository(conn)
	reports := spamrepo.NewPostgresRepository(conn)
	contactSvc := contact.NewService(contacts, users)
	spamSvc := spam.NewService(reports, users)
	hasher := security.NewHasher(cfg.BcryptCost)

	// A fixed seed keeps the dataset identical across runs, which is what
	// makes re-running a no-op.
	rng := rand.New(rand.NewSource(42))

	hash, err := hasher.Hash([]byte(seedPassword))
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	seeded := make([]*userdomain.User, 0, cfg.SeedUsers)
	created := 0
	for i := 0; i < cfg.SeedUsers; i++ {
		phone := fmt.Sprintf("+1415555%04d", i)
		existing, err := users.GetByPhone(ctx, phone)
		if err != nil {
			log.Fatalf("seed users: %v", err)
		}
		if existing != nil {
			seeded = append(seeded, existing)
			continue
		}
		name := firstNames[i%len(firstNames)] + " " + lastNames[i%len(lastNames)]
		now := time.Now().UTC()
		u := &userdomain.User{
			ID:           uuid.NewString(),
			PhoneNumber:  phone,
			Name:         name,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if i%3 == 0 {
			u.Email = fmt.Sprintf("user%d@example.com", i)
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed users: %v", err)
		}
		seeded = append(seeded, u)
		created++
	}
	log.Printf("users: %d created, %d total", created, len(seeded))

	// Phone books: a handful of contacts per user, roughly a third of them
	// pointing at other seeded accounts.
	contactsCreated := 0
	for i, owner := range seeded {
		for j := 0; j < 5; j++ {
			var name, number string
			if rng.Intn(10) < 3 && len(seeded) > 1 {
				other := seeded[rng.Intn(len(seeded))]
				if other.ID == owner.ID {
					continue
				}
				name = other.Name
				number = other.PhoneNumber
			} else {
				name = firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
				number = fmt.Sprintf("+1650555%02d%02d", i, j)
			}
			_, err := contactSvc.Add(ctx, owner.ID, name, number)
			if err != nil {
				if errors.Is(err, contact.ErrDuplicateContact) {
					continue
				}
				log.Fatalf("seed contacts: %v", err)
			}
			contactsCreated++
		}
	}
	log.Printf("contacts: %d created", contactsCreated)

	// Spam reports against a small pool of numbers, some registered, some not.
	spamTargets := []string{"+18005550100", "+18005550101", "+18005550102"}
	if len(seeded) > 0 {
		spamTargets = append(spamTargets, seeded[len(seeded)-1].PhoneNumber)
	}
	reportsCreated := 0
	for _, target := range spamTargets {
		n := 1 + rng.Intn(12)
		for k := 0; k < n && k < len(seeded); k++ {
			err := spamSvc.Report(ctx, seeded[k].ID, target)
			if err != nil {
				if errors.Is(err, spam.ErrAlreadyReported) || errors.Is(err, spam.ErrSelfReport) {
					continue
				}
				log.Fatalf("seed spam reports: %v", err)
			}
			reportsCreated++
		}
	}
	log.Printf("spam reports: %d created", reportsCreated)
}
