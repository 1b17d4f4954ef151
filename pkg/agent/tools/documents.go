package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vocalize-ai/hrscreen/pkg/agent/state"
	"github.com/vocalize-ai/hrscreen/pkg/llm"
)

// ListDocuments implements list_input_documents.
type ListDocuments struct {
	Store DocumentStore
}

func (ListDocuments) Name() string { return "list_input_documents" }

func (ListDocuments) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "list_input_documents",
		Description: "List the interview input documents available to read, such as the job description and the candidate's resume.",
	}
}

func (t ListDocuments) Execute(ctx context.Context, _ Invocation, _ state.State) (Result, error) {
	docs, err := t.Store.List(ctx)
	if errors.Is(err, ErrNoInputDir) {
		return Result{Text: "The input documents folder does not exist; no documents are available."}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if len(docs) == 0 {
		return Result{Text: "No input documents are available."}, nil
	}

	var b strings.Builder
	b.WriteString("Available documents:\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s (%s, %s)\n", d.Name, d.Kind, humanSize(d.Size))
	}
	return Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// ReadDocument implements read_input_document.
type ReadDocument struct {
	Store DocumentStore
}

func (ReadDocument) Name() string { return "read_input_document" }

func (ReadDocument) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "read_input_document",
		Description: "Read the full text of one input document by file name. Use list_input_documents first to see what exists.",
		Parameters: &llm.Schema{
			Type: "object",
			Properties: map[string]*llm.Schema{
				"file_name": {Type: "string", Description: "exact file name as returned by list_input_documents"},
			},
			Required: []string{"file_name"},
		},
	}
}

func (t ReadDocument) Execute(ctx context.Context, inv Invocation, _ state.State) (Result, error) {
	name := stringArg(inv.Args, "file_name")
	if name == "" {
		return Result{Text: "Error: read_input_document requires a file_name argument."}, nil
	}

	text, err := t.Store.Read(ctx, name)
	if errors.Is(err, ErrDocumentNotFound) {
		// The model asked for a file that is not there. Tell it, and let it
		// pick from the real list instead of failing the turn.
		return Result{Text: fmt.Sprintf("Error: no document named %q exists. Use list_input_documents to see available files.", name)}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Result{Text: fmt.Sprintf("Document %q is empty.", name)}, nil
	}
	return Result{Text: fmt.Sprintf("Contents of %s:\n\n%s", name, text)}, nil
}
