// Package panels 实现文档分析和智能任务两个一次性请求/响应面板的状态。
// 控制器只能在 UI 事件循环中调用。
package panels

import (
	"errors"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/avatar"
	"tokmakchat/internal/document"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/notify"
)

const (
	DocumentTitle       = "Belge Analizi"
	DocumentDescription = "PDF, JPG veya HTML dosyalarınızı yükleyerek özetler oluşturun."
	DocumentEmptyState  = "Analiz sonuçları burada görünecektir."
	AbstractHeading     = "Soyut Özet"
	ConcreteHeading     = "Somut Özet"
	SelectLabel         = "Dosya Seç"
	AnalyzeLabel        = "Analiz Et"

	invalidTypeTitle = "Geçersiz Dosya Türü"
	invalidTypeDesc  = "Lütfen bir PDF, JPG veya HTML dosyası seçin."
	noFileTitle      = "Dosya Seçilmedi"
	noFileDesc       = "Lütfen analiz etmek için bir dosya seçin."
	analyzeFailTitle = "Analiz Başarısız"
	readErrorTitle   = "Dosya Okuma Hatası"
	readErrorDesc    = "Dosya okunurken bir hata oluştu."
	tooLargeDesc     = "Dosya 20 MB sınırını aşıyor."
)

// DocumentRequester 发起一次文档分析，返回提交 ID。
type DocumentRequester interface {
	RequestAnalyzeDocument(in assistant.AnalyzeDocumentInput) (string, error)
}

type DocumentOptions struct {
	Requester DocumentRequester
	Notify    notify.Func
	Log       *logger.LogEntry
}

type DocumentController struct {
	requester DocumentRequester
	notify    notify.Func
	log       *logger.LogEntry

	file    *document.Document
	result  *assistant.AnalyzeDocumentOutput
	loading bool
	pending string
}

func NewDocumentController(opts DocumentOptions) *DocumentController {
	d := &DocumentController{requester: opts.Requester, notify: opts.Notify, log: opts.Log}
	if d.log == nil {
		d.log = logger.Named("document")
	}
	return d
}

// File 返回当前选中的文件。
func (d *DocumentController) File() (document.Document, bool) {
	if d.file == nil {
		return document.Document{}, false
	}
	return *d.file, true
}

func (d *DocumentController) Result() (assistant.AnalyzeDocumentOutput, bool) {
	if d.result == nil {
		return assistant.AnalyzeDocumentOutput{}, false
	}
	return *d.result, true
}

func (d *DocumentController) Loading() bool { return d.loading }

// Status 在分析中返回 analyzing。
func (d *DocumentController) Status() avatar.Status {
	if d.loading {
		return avatar.StatusAnalyzing
	}
	return avatar.StatusIdle
}

// Select 选中文件。类型不在白名单时提示并清空已有选择。
func (d *DocumentController) Select(doc document.Document) bool {
	if !document.IsAllowed(doc.MIMEType) {
		d.log.WithField("mime", doc.MIMEType).Info("rejected document type")
		d.file = nil
		d.notify.Send(notify.Error(invalidTypeTitle, invalidTypeDesc))
		return false
	}
	d.file = &doc
	return true
}

// SelectPath 从磁盘读取并选中文件。
func (d *DocumentController) SelectPath(path string) bool {
	doc, err := document.Load(path)
	switch {
	case err == nil:
		return d.Select(doc)
	case errors.Is(err, document.ErrUnsupportedType):
		return d.Select(doc)
	case errors.Is(err, document.ErrTooLarge):
		d.log.WithError(err).Info("rejected document size")
		d.file = nil
		d.notify.Send(notify.Error(readErrorTitle, tooLargeDesc))
		return false
	default:
		d.Fail(err)
		return false
	}
}

// CanAnalyze 在已选文件且不在分析中时为 true。
func (d *DocumentController) CanAnalyze() bool {
	return d.file != nil && !d.loading
}

// Analyze 发起分析。没有文件时提示；分析中重复调用被忽略。
func (d *DocumentController) Analyze() bool {
	if d.file == nil {
		d.notify.Send(notify.Error(noFileTitle, noFileDesc))
		return false
	}
	if d.loading {
		return false
	}
	d.loading = true
	d.result = nil
	if d.requester == nil {
		d.Complete(d.pending, assistant.Result[assistant.AnalyzeDocumentOutput]{Error: assistant.ErrAnalyzeDocument})
		return true
	}
	id, err := d.requester.RequestAnalyzeDocument(assistant.AnalyzeDocumentInput{DocumentDataURI: d.file.DataURI()})
	if err != nil {
		d.log.WithError(err).Error("failed to submit document analysis")
		d.Complete(d.pending, assistant.Result[assistant.AnalyzeDocumentOutput]{Error: assistant.ErrAnalyzeDocument})
		return true
	}
	d.pending = id
	return true
}

// Complete 处理分析结果；ID 不匹配时忽略。
func (d *DocumentController) Complete(id string, res assistant.Result[assistant.AnalyzeDocumentOutput]) {
	if !d.loading || id != d.pending {
		return
	}
	d.loading = false
	d.pending = ""
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = assistant.ErrAnalyzeDocument
		}
		d.notify.Send(notify.Error(analyzeFailTitle, msg))
		return
	}
	out := res.Data
	d.result = &out
}

// Fail 处理本地读取错误。
func (d *DocumentController) Fail(err error) {
	d.log.WithError(err).Warn("failed to read document")
	d.loading = false
	d.pending = ""
	d.notify.Send(notify.Error(readErrorTitle, readErrorDesc))
}
