package testhelpers

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"log"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/emon-gain/Backend.API.Service-sub000/internal/repositories"
	"github.com/emon-gain/Backend.API.Service-sub000/internal/utils"
)

// TestHelper encapsulates all necessary components for running integration
// tests against a deployed instance of the service.
type TestHelper struct {
	T          *testing.T
	Ctx        context.Context
	BaseURL    string
	DB         *pgxpool.Pool
	PrivateKey *rsa.PrivateKey

	// From ldflags
	AppName         string
	UniqueRunNumber string
	UniqueRunnerID  string

	// Repositories
	ContractRepo repositories.ContractRepository
	PartnerRepo  repositories.PartnerSettingsRepository
	InvoiceRepo  repositories.InvoiceRepository
}

// NewTestHelper sets up the testing environment by loading secrets from the
// environment, connecting to the DB and initializing repositories. It's
// designed to be called once from a TestMain function.
func NewTestHelper(t *testing.T, appName, uniqueRunID, uniqueRunNum string) *TestHelper {
	// 1. Load environment
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	if baseURL == "" {
		log.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}
	env := os.Getenv("ENV")
	if env == "" {
		log.Fatal("ENV env var is missing")
	}

	dbURL := os.Getenv("DB_URL")
	require.NotEmpty(t, dbURL, "DB_URL env var is missing")

	// 2. Signing key for minting test tokens
	privateKeyB64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	require.NotEmpty(t, privateKeyB64, "RSA_PRIVATE_KEY_BASE64 env var is missing")
	privateKeyPEM, err := base64.StdEncoding.DecodeString(privateKeyB64)
	require.NoError(t, err)
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	require.NoError(t, err)

	// 3. Connect to DB with isolated role
	effectiveURL, err := utils.WithIsolatedRole(dbURL, uniqueRunID, uniqueRunNum)
	require.NoError(t, err)

	ctx := context.Background()
	dbPool, err := pgxpool.Connect(ctx, effectiveURL)
	require.NoError(t, err)
	t.Cleanup(func() { dbPool.Close() })

	return &TestHelper{
		T:               t,
		Ctx:             ctx,
		BaseURL:         baseURL,
		DB:              dbPool,
		PrivateKey:      privateKey,
		AppName:         appName,
		UniqueRunnerID:  uniqueRunID,
		UniqueRunNumber: uniqueRunNum,
		ContractRepo:    repositories.NewContractRepository(dbPool),
		PartnerRepo:     repositories.NewPartnerSettingsRepository(dbPool),
		InvoiceRepo:     repositories.NewInvoiceRepository(dbPool),
	}
}
