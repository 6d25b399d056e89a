package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/api/responses"
	"github.com/quanganhtapcode/store/api/validators"
	"github.com/quanganhtapcode/store/internal/activity"
	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
	"github.com/quanganhtapcode/store/pkg/logger"
)

// RecentActivity returns the newest audit-trail entries.
func RecentActivity(db *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := activity.Recent(r.Context(), db, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load activity log"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"data": entries})
	}
}
