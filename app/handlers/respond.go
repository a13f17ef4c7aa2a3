package handlers

import (
	"log"
	"net/http"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/unrolled/render"
)

// respondError renders any error as the structured {"msg": ...} JSON shape.
// Unhandled errors get logged and a generic message; their detail never
// reaches the client.
func respondError(rnd *render.Render, w http.ResponseWriter, err error) {
	appErr := apperrors.As(err)
	if appErr.Kind == apperrors.KindUnhandled {
		log.Printf("Unhandled error: %v", appErr)
	}

	body := map[string]interface{}{"msg": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	_ = rnd.JSON(w, appErr.HTTPStatus(), body)
}
