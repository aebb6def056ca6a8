package render

import (
	"go.uber.org/zap"
)

// Engine names accepted by NewRenderer
const (
	EngineAuto        = "auto"
	EngineWkhtmltopdf = "wkhtmltopdf"
	EngineChromedp    = "chromedp"
)

// NewRenderer builds the PDF renderer for the requested engine. In auto mode
// wkhtmltopdf is preferred when its binary resolves; otherwise chromedp takes
// over. Asking for wkhtmltopdf explicitly fails hard when the binary is
// missing so a misconfigured deployment is caught at startup.
func NewRenderer(engine string, wkCfg *WkhtmltopdfConfig, cdCfg *ChromedpConfig, logger *zap.Logger) (PDFRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch engine {
	case EngineWkhtmltopdf:
		return NewWkhtmltopdfRenderer(wkCfg)
	case EngineChromedp:
		return NewChromedpRenderer(cdCfg)
	case EngineAuto, "":
		renderer, err := NewWkhtmltopdfRenderer(wkCfg)
		if err == nil {
			logger.Info("using wkhtmltopdf renderer")
			return renderer, nil
		}
		if !IsBinaryNotFound(err) {
			return nil, err
		}
		logger.Warn("wkhtmltopdf binary not found, falling back to chromedp", zap.Error(err))
		return NewChromedpRenderer(cdCfg)
	default:
		return nil, NewRenderError(ErrCodeRenderFailed, "unknown renderer engine: "+engine, nil)
	}
}
