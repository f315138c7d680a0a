//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"stepkit/config"
	"stepkit/internal/adapter/memstore"
	"stepkit/internal/domain"
	"stepkit/internal/usecase"
)

var (
	extractor *usecase.Extractor
	store     *memstore.MemoryStore
)

func init() {
	extractor = usecase.NewExtractor(config.DefaultConfig(), nil)
	store = memstore.NewMemoryStore()
}

func main() {
	c := make(chan struct{})

	js.Global().Set("stepkitChunks", js.FuncOf(segmentChunks))
	js.Global().Set("stepkitDocument", js.FuncOf(parseDocument))
	js.Global().Set("stepkitRepair", js.FuncOf(repairStep))
	js.Global().Set("stepkitNormalize", js.FuncOf(normalizeStep))
	js.Global().Set("stepkitSave", js.FuncOf(saveTranscript))
	js.Global().Set("stepkitReplay", js.FuncOf(replayTranscript))

	<-c
}

func segmentChunks(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stepkitChunks(text)")
	}
	return makeResult(map[string]interface{}{
		"chunks": extractor.Chunks(args[0].String()),
	})
}

func parseDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stepkitDocument(text)")
	}
	return makeResult(map[string]interface{}{
		"document": extractor.Document(args[0].String()),
	})
}

func repairStep(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stepkitRepair(candidate)")
	}
	result, err := extractor.Repair(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(map[string]interface{}{
		"tier":       result.Tier.String(),
		"normalized": result.Normalized,
		"step":       result.Step,
	})
}

func normalizeStep(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stepkitNormalize(json)")
	}
	step, report := extractor.Normalize([]byte(args[0].String()))
	return makeResult(map[string]interface{}{
		"step":      step,
		"found":     report.Found,
		"defaulted": report.Defaulted,
	})
}

func saveTranscript(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: stepkitSave(name, content)")
	}
	name := args[0].String()
	content := args[1].String()

	id := usecase.TranscriptID(name, content)
	tr := domain.Transcript{
		ID:         id,
		Name:       name,
		Source:     name,
		ImportedAt: time.Now(),
		Content:    content,
	}
	if err := store.PutTranscript(tr); err != nil {
		return makeError("save failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

func replayTranscript(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stepkitReplay(id)")
	}
	tr, err := store.GetTranscript(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	report := usecase.Replay(extractor.Segmenter(), tr.Content, usecase.ReplayOptions{})
	return makeResult(map[string]interface{}{
		"snapshots":  report.Snapshots,
		"revisions":  report.Revisions,
		"idempotent": report.Idempotent,
		"chunks":     report.Final,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
