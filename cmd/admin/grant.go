package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/middleware"
)

func newGrantAdminCmd() *cobra.Command {
	var uid string
	var revoke bool

	cmd := &cobra.Command{
		Use:   "grant-admin",
		Short: "Grant or revoke the admin custom claim on a Firebase user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := a.context(cmd.Context())

			user, err := a.auth.GetUser(ctx, uid)
			if err != nil {
				return fmt.Errorf("get user %s: %w", uid, err)
			}
			claims := withAdminClaim(user.CustomClaims, !revoke)
			if err := a.auth.SetCustomUserClaims(ctx, uid, claims); err != nil {
				return fmt.Errorf("set claims for %s: %w", uid, err)
			}

			a.log.Info("admin claim updated", "uid", uid, "admin", !revoke)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", uid, !revoke)
			return err
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "firebase uid")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove the claim instead of granting it")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

// withAdminClaim returns a copy of claims with the admin claim set or removed,
// keeping any other custom claims.
func withAdminClaim(claims map[string]interface{}, admin bool) map[string]interface{} {
	out := make(map[string]interface{}, len(claims)+1)
	for k, v := range claims {
		out[k] = v
	}
	if admin {
		out[middleware.AdminClaim] = true
	} else {
		delete(out, middleware.AdminClaim)
	}
	return out
}
