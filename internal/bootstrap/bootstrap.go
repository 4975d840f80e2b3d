package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	sendgridclient "github.com/TommySini/college-admissions-activities-verifier-sub000/internal/client/sendgrid"
	vertexclient "github.com/TommySini/college-admissions-activities-verifier-sub000/internal/client/vertex"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/config"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

const appName = "Activity Verifier"

type Bootstrap struct {
	Log           *slog.Logger
	Firestore     *firestore.Client
	Firebase      *auth.Client
	KMS           *kms.KeyManagementClient
	SecretManager *secretmanager.Client
	VertexAdapter *vertexclient.Adapter
	Redis         *redis.Client // nil when REDISADDR is unset
	Mailer        *sendgridclient.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	slog.SetDefault(bs.Log)

	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.KMS, err = InitKMS(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.SecretManager, err = InitSecretManager(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	if err != nil {
		return bs, err
	}
	bs.Redis, err = InitRedis(applicationCtx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		// the progress cache is optional; charts are recomputed without it
		bs.Log.Warn("redis unavailable, progress cache disabled", "addr", cfg.RedisAddr, "error", err)
		bs.Redis = nil
	}
	if cfg.SendGridAPIKey == "" {
		bs.Log.Warn("SENDGRIDAPIKEY not set, verification emails will only be logged")
	}
	bs.Mailer = sendgridclient.NewAdapter(bs.Log, cfg.SendGridAPIKey, appName, cfg.MailFrom)

	return bs, nil
}

// Close releases every client that was opened; it is safe after a partial Run.
func (bs *Bootstrap) Close() {
	closeWith := func(name string, fn func() error) {
		if err := fn(); err != nil {
			bs.Log.Error("close failed", "client", name, "error", err)
		}
	}
	if bs.VertexAdapter != nil {
		closeWith("vertex", bs.VertexAdapter.Close)
	}
	if bs.Redis != nil {
		closeWith("redis", bs.Redis.Close)
	}
	if bs.SecretManager != nil {
		closeWith("secretmanager", bs.SecretManager.Close)
	}
	if bs.KMS != nil {
		closeWith("kms", bs.KMS.Close)
	}
	if bs.Firestore != nil {
		closeWith("firestore", bs.Firestore.Close)
	}
}
