package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/bootstrap"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/cache"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/config"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/crypto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/handlers"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/response"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/router"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/services"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	seriesCache := cache.NewSeriesCache(bs.Redis, cfg.CacheTTL)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	acstore := store.NewActivityStore(bs.Firestore)
	pstore := store.NewParticipationStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	ostore := store.NewOrganizationStore(bs.Firestore)
	vstore := store.NewVerificationStore(bs.Firestore)
	aistore := store.NewAIStore(bs.Firestore)
	keys := store.NewSigningKeyStore(bs.SecretManager, cfg.ProjectID, cfg.SigningSecret)

	// services
	userv := services.NewUserService(ustore, seriesCache)
	acserv := services.NewActivityService(acstore, kmsHelper)
	pserv := services.NewParticipationService(pstore, acstore, ustore, seriesCache)
	gserv := services.NewGoalService(gstore, seriesCache)
	prserv := services.NewProgressService(pstore, gstore, ustore, seriesCache, cfg.Location())
	dserv := services.NewDashboardService(services.DashboardSources{
		Users:             ustore,
		Students:          ustore,
		Activities:        acstore,
		Participations:    pstore,
		Goals:             gstore,
		AllActivities:     acstore,
		AllParticipations: pstore,
		Organizations:     ostore,
		Verifications:     vstore,
	}, cfg.Location())
	oserv := services.NewOrganizationService(ostore)
	vserv := services.NewVerificationService(services.VerificationDeps{
		Store:          vstore,
		Activities:     acstore,
		Participations: pstore,
		Users:          ustore,
		Cipher:         kmsHelper,
		Keys:           keys,
		Mailer:         bs.Mailer,
		Cache:          seriesCache,
		BaseURL:        cfg.BaseURL,
		TTL:            cfg.VerificationTTL,
	})
	eserv := services.NewExportService(ustore, acstore, pstore)
	aiserv := services.NewAIService(bs.VertexAdapter, services.AITools{
		Charts:     prserv,
		Activities: acserv,
		Goals:      gserv,
	}, aistore, cfg.AITTL)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Validator = handlers.NewValidator()
	deps.UserSvc = userv
	deps.ActivitySvc = acserv
	deps.ParticipationSvc = pserv
	deps.GoalSvc = gserv
	deps.ProgressSvc = prserv
	deps.DashboardSvc = dserv
	deps.OrganizationSvc = oserv
	deps.VerificationSvc = vserv
	deps.ExportSvc = eserv
	deps.AISvc = aiserv

	// router
	mw := middleware.NewMiddleware(bs.Firebase, rh)
	r := router.NewRouter(deps, mw)

	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
