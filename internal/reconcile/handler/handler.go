package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"kp-summary/internal/config"
	"kp-summary/internal/errors"
	"kp-summary/internal/fileio"
	"kp-summary/internal/metrics"
	"kp-summary/internal/middleware"
	"kp-summary/internal/reconcile"
	"kp-summary/internal/reconcile/lexicon"
	"kp-summary/internal/reconcile/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Summary возвращает http.HandlerFunc для
// r.Post("/summary", recHnd.Summary(cfg, logger, lex, m)) в роутере.
//
// Форма multipart, поле "file" (.xlsx/.xls/.csv). Ответ — книга со сводной
// таблицей, либо JSON при ?format=json.
func Summary(cfg config.Config, logger zerolog.Logger, lex *lexicon.Lexicon, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log := logger
		if rid := middleware.GetRequestID(r); rid != "" {
			log = logger.With().Str("rid", rid).Logger()
		}
		defer r.Body.Close()

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			m.ObserveFailure(metrics.OutcomeInvalid, time.Since(start))
			// тело без Content-Length упёрлось в MaxBytesReader
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "request too large")
				return
			}
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			m.ObserveFailure(metrics.OutcomeInvalid, time.Since(start))
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		opts := service.Options{
			Lexicon:       lex,
			Observer:      service.ZerologObserver{Logger: log},
			VariantSuffix: cfg.VariantSuffix,
			AnalogSuffix:  cfg.AnalogSuffix,
		}
		tbl, err := reconcile.Build(r.Context(), file, header.Filename, opts)
		if err != nil {
			if errors.IsInvalidInput(err) {
				m.ObserveFailure(metrics.OutcomeInvalid, time.Since(start))
				log.Warn().Err(err).Str("file", header.Filename).Msg("summary rejected")
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			m.ObserveFailure(metrics.OutcomeError, time.Since(start))
			log.Error().Err(err).Str("file", header.Filename).Msg("summary failed")
			writeError(w, http.StatusInternalServerError, "summary failed")
			return
		}
		m.ObserveTable(tbl, time.Since(start))

		w.Header().Set("Cache-Control", "no-store")
		if wantJSON(r) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			enc := json.NewEncoder(w)
			if toBool(r.FormValue("pretty"), true) {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(tbl); err != nil {
				log.Error().Err(err).Msg("write json")
				return
			}
		} else {
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment",
				map[string]string{"filename": fileio.SummaryName(header.Filename)}))
			if err := fileio.WriteXLSX(w, tbl); err != nil {
				log.Error().Err(err).Msg("write xlsx")
				return
			}
		}

		log.Info().
			Str("file", header.Filename).
			Int("suppliers", len(tbl.Suppliers)).
			Int("rows", len(tbl.Rows)).
			Bool("flat", tbl.Flat).
			Dur("elapsed", time.Since(start)).
			Msg("summary done")
	}
}

func wantJSON(r *http.Request) bool {
	if strings.EqualFold(r.FormValue("format"), "json") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
