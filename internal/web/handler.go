package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartcheck/internal/features"
	"github.com/Skufu/heartcheck/internal/pipeline"
	"github.com/Skufu/heartcheck/internal/presets"
)

//go:embed templates/*.html static/*
var assets embed.FS

type Handler struct {
	svc      *pipeline.Service
	presets  presets.Store
	modelErr error
}

// NewHandler wires the pages and API. modelErr is the reason the model
// could not be loaded, shown to users while prediction is disabled.
func NewHandler(svc *pipeline.Service, store presets.Store, modelErr error) *Handler {
	if store == nil {
		store = presets.Static{}
	}
	return &Handler{svc: svc, presets: store, modelErr: modelErr}
}

// Register installs templates, static assets and routes on router.
func (h *Handler) Register(router *gin.Engine) error {
	tmpl, err := template.New("").ParseFS(assets, "templates/*.html")
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	router.StaticFS("/static", http.FS(static))

	router.GET("/", h.index)
	router.POST("/predict", h.predictForm)

	api := router.Group("/api/v1")
	{
		api.POST("/predict", h.predictJSON)
		api.GET("/presets", h.listPresets)
		api.GET("/schema", h.schema)
	}
	return nil
}

func (h *Handler) newPage(c *gin.Context, in features.ClinicalInput) *page {
	p := &page{
		Fields: buildFields(h.svc.Validator().Schema(), in),
		FAQ:    faq,
	}
	if !h.svc.Ready() {
		p.ModelError = "Model file not found. Prediction is disabled until a model artifact is available."
		if h.modelErr != nil {
			p.ModelError = "Model could not be loaded: " + h.modelErr.Error()
		}
	}
	profiles, err := h.presets.List(c.Request.Context())
	if err != nil {
		slog.Warn("list presets", "error", err)
	}
	p.Presets = profiles
	return p
}

func (h *Handler) index(c *gin.Context) {
	in := features.DefaultInput()
	label := c.Query("preset")
	if label != "" {
		profile, ok, err := presets.Find(c.Request.Context(), h.presets, label)
		if err != nil {
			slog.Warn("find preset", "label", label, "error", err)
		}
		if ok {
			in = profile.Input
		}
	}

	p := h.newPage(c, in)
	p.SelectedPreset = label
	c.HTML(http.StatusOK, "index.html", p)
}

func (h *Handler) predictForm(c *gin.Context) {
	var in features.ClinicalInput
	if err := c.ShouldBind(&in); err != nil {
		p := h.newPage(c, features.DefaultInput())
		p.Error = "The form could not be read: " + err.Error()
		c.HTML(http.StatusBadRequest, "index.html", p)
		return
	}

	p := h.newPage(c, in)
	p.Recommendations = c.PostForm("recommendations")

	res, err := h.svc.Run(c.Request.Context(), in)
	if err != nil {
		var verr *features.ValidationError
		switch {
		case errors.Is(err, pipeline.ErrModelUnavailable):
			p.Error = "Model is not loaded. Cannot make a prediction."
			c.HTML(http.StatusServiceUnavailable, "index.html", p)
		case errors.As(err, &verr):
			p.Errors = verr.Fields
			c.HTML(http.StatusUnprocessableEntity, "index.html", p)
		default:
			slog.Error("prediction failed", "error", err)
			p.Error = "Prediction failed. Please try again."
			c.HTML(http.StatusInternalServerError, "index.html", p)
		}
		return
	}

	p.Result = res
	p.Banner = buildBanner(res)
	p.Chart = buildChart(res.Waterfall)
	for _, msg := range res.Advice.Messages {
		p.Advice = append(p.Advice, renderAdvice(msg))
	}
	p.AdviceFallback = res.Advice.Fallback
	c.HTML(http.StatusOK, "index.html", p)
}

func (h *Handler) predictJSON(c *gin.Context) {
	var in features.ClinicalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "details": err.Error()})
		return
	}

	res, err := h.svc.Run(c.Request.Context(), in)
	if err != nil {
		var verr *features.ValidationError
		switch {
		case errors.Is(err, pipeline.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model_unavailable"})
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": verr.Fields})
		default:
			slog.Error("prediction failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction_failed", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) listPresets(c *gin.Context) {
	profiles, err := h.presets.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presets_unavailable", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": profiles})
}

func (h *Handler) schema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"columns": features.Columns(),
		"fields":  features.Fields(h.svc.Validator().Schema()),
		"classes": h.svc.Classes(),
		"ready":   h.svc.Ready(),
	})
}
