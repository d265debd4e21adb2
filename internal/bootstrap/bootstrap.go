// Package bootstrap wires a loaded config.Definition into the concrete C1,
// C2, C3, C5, C6, C9 instances the C10 RPC Surface serves, grounded on the
// teacher's internal/services.Registry / internal/secretstores.Registry
// factory-map wiring, collapsed here into one linear Build since C11 names
// exactly one active backend and one active KMS adapter rather than many
// simultaneously-available ones.
package bootstrap

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	vaultapi "github.com/hashicorp/vault/api"
	_ "github.com/lib/pq"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/systmms/secretcore/internal/authority"
	"github.com/systmms/secretcore/internal/backendstore"
	"github.com/systmms/secretcore/internal/config"
	"github.com/systmms/secretcore/internal/crypto"
	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/identity"
	"github.com/systmms/secretcore/internal/kms"
	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/metadata"
	"github.com/systmms/secretcore/internal/observability"
	"github.com/systmms/secretcore/internal/rpc"
	"github.com/systmms/secretcore/internal/service"
)

const component = "bootstrap"

// App holds every long-lived handle Build constructs, so main can close
// them cleanly on shutdown.
type App struct {
	Services rpc.Services
	Resolver rpc.TokenResolver
	Metrics  *observability.Metrics
	DB       *sql.DB
	Identity *identity.Adapter
}

// Build constructs the full dependency graph described by def: the
// metadata store, the configured backend-store adapter, the configured KMS
// adapter (when encryption is enabled), the identity adapter, and the
// three C9 services, each instrumented via C12.
func Build(ctx context.Context, def *config.Definition, logger *logging.Logger) (*App, error) {
	observability.InitMetrics()
	metrics := observability.New()

	dbCfg, err := def.DefaultDatabase()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindWrongConfiguration, component, err)
	}
	metadataStore := metadata.Open(db)

	store, err := buildBackendStore(ctx, def)
	if err != nil {
		return nil, err
	}
	router, err := backendstore.NewRouter(def.Backend, backendstore.Instrument(store, metrics))
	if err != nil {
		return nil, err
	}

	var engine *crypto.Engine
	if def.Encrypt {
		svc, keyAlias, err := buildKMSService(ctx, def)
		if err != nil {
			return nil, err
		}
		engine = crypto.New(kms.Instrument(svc, metrics), keyAlias)
	}

	identityAdapter, err := identity.Dial(ctx, identity.Config{Endpoint: def.Identity.Endpoint, Insecure: def.Identity.Insecure})
	if err != nil {
		return nil, err
	}

	authz := authority.New(logger)

	secretSvc := service.NewSecretService(metadataStore, router, engine, authz, logger, nil, nil)
	secretSvc.SetMetrics(metrics)
	trustedSvc := service.NewTrustedSecretService(metadataStore, router, engine, authz, logger, nil, nil)
	trustedSvc.SetMetrics(metrics)
	userSvc := service.NewUserSecretService(metadataStore, router, engine, authz, logger, nil, nil)
	userSvc.SetMetrics(metrics)

	return &App{
		Services: rpc.Services{Secret: secretSvc, TrustedSecret: trustedSvc, UserSecret: userSvc},
		Resolver: rpc.NewIdentityTokenResolver(identityAdapter),
		Metrics:  metrics,
		DB:       db,
		Identity: identityAdapter,
	}, nil
}

// Close releases every handle Build opened.
func (a *App) Close() error {
	if a.Identity != nil {
		_ = a.Identity.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildBackendStore(ctx context.Context, def *config.Definition) (backendstore.Store, error) {
	conn, err := def.Connector(def.Backend)
	if err != nil {
		return nil, err
	}

	switch def.Backend {
	case "aws-secretsmanager":
		return backendstore.NewAWSSecretsManager(ctx, conn.Region)
	case "vault-kv":
		client, err := vaultClient(conn)
		if err != nil {
			return nil, err
		}
		return backendstore.NewVaultKV(client, conn.Options["mount"]), nil
	case "etcd-kv":
		client, err := clientv3.New(clientv3.Config{Endpoints: []string{conn.Endpoint}})
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
		return backendstore.NewEtcdKV(client, conn.Options["key_prefix"]), nil
	case "sql":
		db, err := sql.Open(conn.Options["driver"], conn.Options["dsn"])
		if err != nil {
			return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
		}
		return backendstore.NewSQLStore(db, conn.Options["table"]), nil
	case "dev":
		return backendstore.NewDevStore(), nil
	default:
		return nil, dserrors.New(dserrors.KindBackendNotDefined, component, "unrecognized backend: "+def.Backend)
	}
}

func buildKMSService(ctx context.Context, def *config.Definition) (kms.Service, string, error) {
	conn, err := def.Connector(def.EncryptType)
	if err != nil {
		return nil, "", err
	}

	switch def.EncryptType {
	case kms.EncryptTypeAWSKMS:
		svc, err := kms.New(ctx, kms.Config{Region: conn.Region})
		if err != nil {
			return nil, "", err
		}
		return svc, conn.KeyAlias, nil
	case kms.EncryptTypeVaultTransit:
		client, err := vaultClient(conn)
		if err != nil {
			return nil, "", err
		}
		return kms.NewVaultTransit(client, conn.Options["mount"]), conn.KeyAlias, nil
	default:
		return nil, "", dserrors.New(dserrors.KindUnsupportedEncrypt, component, "unsupported encrypt_type: "+def.EncryptType)
	}
}

func vaultClient(conn config.Connector) (*vaultapi.Client, error) {
	vaultCfg := vaultapi.DefaultConfig()
	if conn.Endpoint != "" {
		vaultCfg.Address = conn.Endpoint
	}
	client, err := vaultapi.NewClient(vaultCfg)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindStoreUnavailable, component, err)
	}
	return client, nil
}
