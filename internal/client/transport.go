// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/stage"
)

// Payload is the assembled submission: a prepared draft plus the staged files.
type Payload struct {
	Draft      nomination.Draft
	Photo      *stage.File
	Supporting []stage.File
}

// Transport delivers a payload to the nomination service.
type Transport interface {
	Submit(context context.Context, payload Payload) (*nomination.Receipt, error)
}

// HTTPTransport posts payloads as multipart/form-data.
type HTTPTransport struct {
	Session Session
}

/*
Submit streams the multipart body: the "nomination" JSON field, the "photo"
part and one "supportingFiles" part per document.

The body is streamed through an io.Pipe while the request is in flight.
*/
func (transport HTTPTransport) Submit(context context.Context, payload Payload) (*nomination.Receipt, error) {
	document, err := json.Marshal(payload.Draft)
	if err != nil {
		return nil, fmt.Errorf("client: encode draft: %w", err)
	}

	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		writer.CloseWithError(writeParts(form, document, payload))
	}()
	defer reader.Close()

	var receipt nomination.Receipt
	if err := transport.Session.do(context, http.MethodPost, "/nominations", reader, form.FormDataContentType(), &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func writeParts(form *multipart.Writer, document []byte, payload Payload) error {
	if err := form.WriteField("nomination", string(document)); err != nil {
		return err
	}

	if payload.Photo != nil {
		if err := writeFile(form, string(stage.SlotPhoto), *payload.Photo); err != nil {
			return err
		}
	}
	for _, file := range payload.Supporting {
		if err := writeFile(form, string(stage.SlotSupporting), file); err != nil {
			return err
		}
	}

	return form.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(form *multipart.Writer, field string, file stage.File) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", file.ContentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}

	source, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %q: %w", file.Name, err)
	}
	defer source.Close()

	if _, err := io.Copy(part, source); err != nil {
		return fmt.Errorf("send %q: %w", file.Name, err)
	}
	return nil
}
