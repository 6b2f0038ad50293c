// Command server runs the truedial HTTP API.
package main

import (
	"context"
	"crypto"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhandler "truedial/internal/auth/handler"
	contacthandler "truedial/internal/contact/handler"
	healthhandler "truedial/internal/health/handler"
	searchhandler "truedial/internal/search/handler"

	"truedial/internal/auth"
	"truedial/internal/config"
	"truedial/internal/contact"
	contactrepo "truedial/internal/contact/repository"
	"truedial/internal/db"
	"truedial/internal/search"
	"truedial/internal/security"
	"truedial/internal/server"
	sessionrepo "truedial/internal/session/repository"
	"truedial/internal/spam"
	spamhandler "truedial/internal/spam/handler"
	spamrepo "truedial/internal/spam/repository"
	"truedial/internal/telemetry/otel"
	userrepo "truedial/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer conn.Close()

	signer, publicKey, err := signingKeys(cfg)
	if err != nil {
		log.Fatalf("signing keys: %v", err)
	}
	tokens := security.NewTokenProvider(signer, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "truedial", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	users := userrepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	contacts := contactrepo.NewPostgresRepository(conn)
	reports := spamrepo.NewPostgresRepository(conn)

	authSvc := auth.NewService(users, sessions, hasher, tokens)
	contactSvc := contact.NewService(contacts, users)
	spamSvc := spam.NewService(reports, users)
	searchSvc := search.NewService(users, contacts, reports)

	router := server.New(server.Deps{
		Auth:     authhandler.NewHandler(authSvc),
		Contacts: contacthandler.NewHandler(contactSvc),
		Spam:     spamhandler.NewHandler(spamSvc),
		Search:   searchhandler.NewHandler(searchSvc),
		Health:   healthhandler.NewHandler(conn),
		Tokens:   tokens,
		Sessions: sessions,
		Tracer:   providers.TracerProvider.Tracer("truedial/server"),
		Meter:    providers.MeterProvider.Meter("truedial/server"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Print("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}

// signingKeys loads the configured PEM key pair, or generates an ephemeral
// pair outside production so the server can run without key setup. Ephemeral
// keys invalidate all tokens on restart.
func signingKeys(cfg *config.Config) (crypto.Signer, crypto.PublicKey, error) {
	if cfg.JWTPrivateKey != "" && cfg.JWTPublicKey != "" {
		signer, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			return nil, nil, err
		}
		pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, nil, err
		}
		return signer, pub, nil
	}
	if cfg.Env == "production" {
		return nil, nil, errors.New("JWT keys must be configured in production")
	}
	log.Print("no JWT keys configured; using ephemeral dev keys")
	return security.GenerateEphemeralKeyPair()
}
