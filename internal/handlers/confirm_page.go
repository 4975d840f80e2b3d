package handlers

import (
	"html/template"
	"net/http"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/models"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

type confirmPage struct {
	Token        string
	ActivityName string
	Status       string
	Pending      bool
}

var confirmTmpl = template.Must(template.New("confirm").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Confirm activity</title>
</head>
<body>
  <h1>{{.ActivityName}}</h1>
{{- if .Pending}}
  <p>A student listed you as the supervisor for this activity. Please confirm whether they took part.</p>
  <form method="post" action="confirm">
    <input type="hidden" name="token" value="{{.Token}}">
    <label for="note">Note (optional)</label>
    <textarea id="note" name="note" maxlength="1000"></textarea>
    <button type="submit" name="decision" value="approve">Approve</button>
    <button type="submit" name="decision" value="decline">Decline</button>
  </form>
{{- else}}
  <p>This activity is {{.Status}}. Thank you.</p>
{{- end}}
</body>
</html>
`))

func renderConfirmPage(w http.ResponseWriter, r *http.Request, token string, v *models.Verification) {
	page := confirmPage{
		ActivityName: v.ActivityName,
		Status:       v.Status,
		Pending:      v.Status == models.VerificationPending,
	}
	if page.Pending {
		page.Token = token
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := confirmTmpl.Execute(w, page); err != nil {
		logger.FromContext(r.Context()).Error("render confirm page", "error", err)
	}
}
