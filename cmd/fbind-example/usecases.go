package main

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/swaggest/fbind/resolver"
	"github.com/swaggest/usecase"
	"github.com/swaggest/usecase/status"
)

var errTimesOutOfRange = errors.New("times must be between 1 and 10")

type greetInput struct {
	Name     string `param:"name" default:"World"`
	Greeting string `param:"greeting" default:"Hello"`
	Times    int    `param:"times" default:"1"`
	Shout    *bool  `param:"shout" required:"false"`
}

type greetOutput struct {
	Message string `json:"message"`
}

func greet() usecase.Interactor {
	u := struct {
		usecase.Interactor
		usecase.Info
		usecase.WithInput
		usecase.WithOutput
	}{}

	u.SetTitle("Greet")
	u.SetDescription("Greets by name, parameters fall back to defaults.")
	u.Input = new(greetInput)
	u.Output = new(greetOutput)
	u.Interactor = usecase.Interact(func(ctx context.Context, input, output interface{}) error {
		in := input.(*greetInput)
		out := output.(*greetOutput)

		if in.Times < 1 || in.Times > 10 {
			return status.Wrap(errTimesOutOfRange, status.InvalidArgument)
		}

		msg := in.Greeting + ", " + in.Name + "!"
		if in.Shout != nil && *in.Shout {
			msg = strings.ToUpper(msg)
		}

		out.Message = strings.TrimSpace(strings.Repeat(msg+" ", in.Times))

		return nil
	})

	return u
}

type fileInfo struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
}

type uploadInput struct {
	File        *multipart.FileHeader   `param:"file"`
	Attachments []*multipart.FileHeader `param:"attachment"`
	Description string                  `param:"description" required:"false"`
}

type uploadOutput struct {
	Description string     `json:"description,omitempty"`
	Files       []fileInfo `json:"files"`
}

func upload() usecase.Interactor {
	u := struct {
		usecase.Interactor
		usecase.Info
		usecase.WithInput
		usecase.WithOutput
	}{}

	u.SetTitle("Upload Files")
	u.Input = new(uploadInput)
	u.Output = new(uploadOutput)
	u.Interactor = usecase.Interact(func(ctx context.Context, input, output interface{}) error {
		in := input.(*uploadInput)
		out := output.(*uploadOutput)

		out.Description = in.Description
		out.Files = append(out.Files, fileInfo{Field: "file", Name: in.File.Filename, Size: in.File.Size})

		for _, a := range in.Attachments {
			out.Files = append(out.Files, fileInfo{Field: "attachment", Name: a.Filename, Size: a.Size})
		}

		return nil
	})

	return u
}

type partInfo struct {
	Name        string `json:"name"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
}

type partsInput struct {
	Parts []*resolver.Part `param:"part"`
	Meta  *resolver.Part   `param:"meta" required:"false"`
}

type partsOutput struct {
	Meta  *partInfo  `json:"meta,omitempty"`
	Parts []partInfo `json:"parts"`
}

func describePart(p *resolver.Part) partInfo {
	return partInfo{
		Name:        p.Name,
		FileName:    p.FileName,
		ContentType: p.ContentType(),
		Size:        p.Size(),
	}
}

func parts() usecase.Interactor {
	u := struct {
		usecase.Interactor
		usecase.Info
		usecase.WithInput
		usecase.WithOutput
	}{}

	u.SetTitle("Describe Parts")
	u.Input = new(partsInput)
	u.Output = new(partsOutput)
	u.Interactor = usecase.Interact(func(ctx context.Context, input, output interface{}) error {
		in := input.(*partsInput)
		out := output.(*partsOutput)

		out.Parts = make([]partInfo, 0, len(in.Parts))
		for _, p := range in.Parts {
			out.Parts = append(out.Parts, describePart(p))
		}

		if in.Meta != nil {
			m := describePart(in.Meta)
			out.Meta = &m
		}

		return nil
	})

	return u
}

type paramsInput struct {
	All map[string][]string `param:"all"`
}

type paramsOutput struct {
	Params map[string][]string `json:"params"`
}

func params() usecase.Interactor {
	u := struct {
		usecase.Interactor
		usecase.Info
		usecase.WithInput
		usecase.WithOutput
	}{}

	u.SetTitle("Echo Parameters")
	u.Input = new(paramsInput)
	u.Output = new(paramsOutput)
	u.Interactor = usecase.Interact(func(ctx context.Context, input, output interface{}) error {
		output.(*paramsOutput).Params = input.(*paramsInput).All

		return nil
	})

	return u
}
