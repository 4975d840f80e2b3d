package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/cloudrun"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/docker"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/firestore"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/identity"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/kms"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/provider"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/secret"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// firebase sign-in for students and admins
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		if err := vertex.SetupVertex(ctx, prov); err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov)
		if err != nil {
			return err
		}

		// the api creates the verification signing key itself on first use
		if _, err := secret.SetupSecretManager(ctx, prov, apiSA); err != nil {
			return err
		}

		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, apiSA, "activity-verifier", "supervisor-email")
		if err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, apiSA, keyName, ident, repo, kmsSvc)
		if err != nil {
			return err
		}
		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("kmsKeyName", keyName)
		return nil
	})
}
