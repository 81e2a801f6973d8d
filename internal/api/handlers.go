package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/mockdata"
	"github.com/rshade/resinhook/internal/source"
	"github.com/rshade/resinhook/internal/store"
	"github.com/rshade/resinhook/internal/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type rowsResponse struct {
	OK    bool           `json:"ok"`
	Data  []*dataset.Row `json:"data"`
	Total int            `json:"total"`
}

type jobsResponse struct {
	OK    bool        `json:"ok"`
	Data  []store.Job `json:"data"`
	Total int         `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "API is running"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found", Path: r.URL.Path})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r.URL.Query())
	rows := s.generator().Generate(q)
	writeJSON(w, http.StatusOK, rowsResponse{OK: true, Data: rows, Total: len(rows)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := parseQuery(params)

	filename := params.Get("filename")
	if filename == "" {
		filename = mockdata.DefaultDownloadName
	}

	opts := export.Options{
		Filename:  filename,
		SheetName: mockdata.SheetName(q.Kind),
		ChunkSize: s.chunkSize,
	}
	if q.Locale == mockdata.LocaleEN {
		opts.HeadersMap = mockdata.Headers(q.Kind)
	}

	log := hlog.FromRequest(r)
	deliver := xlsx.DelivererFunc(func(_ context.Context, doc *excelize.File, name, _ string) error {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", ContentDisposition(name))
		w.WriteHeader(http.StatusOK)
		return doc.Write(w)
	})

	exporter := export.NewExporter(deliver, export.WithLogger(*log))
	if s.store != nil {
		unsubscribe := exporter.Subscribe(s.store.Observer(r.Context(), "api:"+string(q.Kind), *log))
		defer unsubscribe()
	}

	gen := s.generator()
	st := exporter.Export(r.Context(), export.FromProducer(source.Mock(gen, q)), opts)
	switch st.Status {
	case export.StatusDone:
	case export.StatusCancelled:
		log.Info().Str("job_id", st.JobID).Msg("download cancelled by client")
	default:
		var derr *export.DeliveryError
		if errors.As(st.Err, &derr) {
			// Headers are already on the wire.
			log.Error().Err(st.Err).Msg("writing download")
			return
		}
		writeError(w, http.StatusInternalServerError, st.Message)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading upload: %v", err))
			return
		}
		defer file.Close()
		body = file
	}

	rows, err := source.ReadXLSX(body, r.URL.Query().Get("sheet"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{OK: true, Data: rows, Total: len(rows)})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, jobsResponse{OK: true, Data: []store.Job{}})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := s.store.List(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("listing jobs")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.Job{}
	}
	writeJSON(w, http.StatusOK, jobsResponse{OK: true, Data: jobs, Total: len(jobs)})
}

// parseQuery reads type, count, keys and txnType.
func parseQuery(v url.Values) mockdata.Query {
	count, _ := strconv.Atoi(v.Get("count"))
	return mockdata.Query{
		Kind:    mockdata.ParseKind(v.Get("type")),
		Count:   count,
		Locale:  mockdata.ParseLocale(v.Get("keys")),
		TxnType: v.Get("txnType"),
	}
}

// ContentDisposition builds an attachment header with an RFC 5987 encoded
// UTF-8 file name.
func ContentDisposition(filename string) string {
	return "attachment; filename*=UTF-8''" + strings.ReplaceAll(url.QueryEscape(filename), "+", "%20")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
