// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package plan loads render graph descriptions written in HCL.
//
// A description declares resources and passes:
//
//	texture "albedo" {}
//	texture "depth" {}
//	texture "hdr" {}
//	buffer "lights" {}
//
//	pass "gbuffer" {
//	  outputs = [texture.albedo]
//	  depth   = texture.depth
//	}
//
//	pass "lighting" {
//	  inputs  = [texture.albedo, buffer.lights]
//	  outputs = [texture.hdr]
//	}
//
// Resource ids are assigned from 1 in declaration order, separately for
// textures and buffers. Passes are added to the builder in declaration
// order.
package plan

import (
	"fmt"
	"os"

	"github.com/gogpu/rdg"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Resource is a declared resource.
type Resource struct {
	Name     string
	Resource rdg.Resource
}

// Pass is a declared pass with its references resolved.
type Pass struct {
	Name    string
	Inputs  []rdg.Resource
	Outputs []rdg.Resource
	Depth   *rdg.Resource
}

// Descriptor returns the pass as an rdg.PassDescriptor.
func (p Pass) Descriptor() rdg.PassDescriptor {
	return rdg.PassDescriptor{
		Name:        p.Name,
		Inputs:      p.Inputs,
		Outputs:     p.Outputs,
		DepthTarget: p.Depth,
	}
}

// File is a decoded graph description.
type File struct {
	Filename  string
	Resources []Resource
	Passes    []Pass
}

// Names maps every declared resource to its name.
func (f *File) Names() map[rdg.Resource]string {
	names := make(map[rdg.Resource]string, len(f.Resources))
	for _, r := range f.Resources {
		names[r.Resource] = r.Name
	}
	return names
}

// Builder adds all passes to a new builder for dev and returns it with
// the pass ids in declaration order.
func (f *File) Builder(dev rdg.Device, opts ...rdg.Option) (*rdg.Builder, []rdg.PassID, error) {
	b := rdg.NewBuilder(dev, opts...)
	ids := make([]rdg.PassID, 0, len(f.Passes))
	for _, p := range f.Passes {
		id, err := b.Add(p.Descriptor())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: pass %q: %w", f.Filename, p.Name, err)
		}
		ids = append(ids, id)
	}
	return b, ids, nil
}

// Execute runs every pending pass of g in order with an empty body.
func Execute(g *rdg.Graph, cmd rdg.CommandBuffer) error {
	for _, id := range g.Pending() {
		if err := g.BeginPass(id, cmd); err != nil {
			return err
		}
		if err := g.EndPass(cmd); err != nil {
			return err
		}
	}
	return nil
}

// fileSchema is the top-level structure of a description.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "texture", LabelNames: []string{"name"}},
		{Type: "buffer", LabelNames: []string{"name"}},
		{Type: "pass", LabelNames: []string{"name"}},
	},
}

// passBody is the content of a pass block.
type passBody struct {
	Inputs  hcl.Expression `hcl:"inputs,optional"`
	Outputs hcl.Expression `hcl:"outputs,optional"`
	Depth   hcl.Expression `hcl:"depth,optional"`
}

// Load reads and decodes the description at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		if f == nil {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
		}
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(f, path)
}

// Parse decodes a description from src. filename is used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(f, filename)
}

func decode(f *hcl.File, filename string) (*File, error) {
	content, diags := f.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	out := &File{Filename: filename}
	s := newScope()
	diags = append(diags, s.declare(out, rdg.KindTexture, content.Blocks.OfType("texture"))...)
	diags = append(diags, s.declare(out, rdg.KindBuffer, content.Blocks.OfType("buffer"))...)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid resources in %s: %w", filename, diags)
	}

	ctx := s.evalContext()
	for _, block := range content.Blocks.OfType("pass") {
		p, passDiags := s.pass(ctx, block)
		diags = append(diags, passDiags...)
		if !passDiags.HasErrors() {
			out.Passes = append(out.Passes, p)
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid passes in %s: %w", filename, diags)
	}

	rdg.Logger().Debug("plan: description loaded",
		"file", filename, "resources", len(out.Resources), "passes", len(out.Passes))
	return out, nil
}

// scope resolves resource references.
type scope struct {
	byKind map[rdg.ResourceKind]map[string]rdg.Resource
	refs   map[string]rdg.Resource
}

func newScope() *scope {
	return &scope{
		byKind: map[rdg.ResourceKind]map[string]rdg.Resource{
			rdg.KindTexture: {},
			rdg.KindBuffer:  {},
		},
		refs: make(map[string]rdg.Resource),
	}
}

func (s *scope) declare(out *File, kind rdg.ResourceKind, blocks hcl.Blocks) hcl.Diagnostics {
	var diags hcl.Diagnostics
	names := s.byKind[kind]
	var next uint64
	for _, block := range blocks {
		// The schema guarantees one label.
		name := block.Labels[0]

		// Resource blocks have no arguments.
		_, bodyDiags := block.Body.Content(&hcl.BodySchema{})
		diags = append(diags, bodyDiags...)
		if bodyDiags.HasErrors() {
			continue
		}

		if !hclsyntax.ValidIdentifier(name) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Invalid %s name", kind),
				Detail:   fmt.Sprintf("%q is not a valid identifier.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		if _, dup := names[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %s", kind),
				Detail:   fmt.Sprintf("A %s named %q was already declared.", kind, name),
				Subject:  &block.DefRange,
			})
			continue
		}
		next++
		r := rdg.Resource{Kind: kind, ID: next}
		names[name] = r
		s.refs[reference(kind, name)] = r
		out.Resources = append(out.Resources, Resource{Name: name, Resource: r})
	}
	return diags
}

func reference(kind rdg.ResourceKind, name string) string {
	return kind.String() + "." + name
}

// evalContext exposes each kind as an object of reference strings, so
// texture.albedo evaluates to "texture.albedo" and unknown names fail
// with an unsupported attribute diagnostic.
func (s *scope) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(s.byKind))
	for kind, names := range s.byKind {
		attrs := make(map[string]cty.Value, len(names))
		for name := range names {
			attrs[name] = cty.StringVal(reference(kind, name))
		}
		if len(attrs) == 0 {
			vars[kind.String()] = cty.EmptyObjectVal
			continue
		}
		vars[kind.String()] = cty.ObjectVal(attrs)
	}
	return &hcl.EvalContext{Variables: vars}
}

func (s *scope) pass(ctx *hcl.EvalContext, block *hcl.Block) (Pass, hcl.Diagnostics) {
	p := Pass{Name: block.Labels[0]}

	var b passBody
	diags := gohcl.DecodeBody(block.Body, nil, &b)
	if diags.HasErrors() {
		return p, diags
	}

	inputs, d := s.list(ctx, b.Inputs, "inputs")
	diags = append(diags, d...)
	p.Inputs = inputs

	outputs, d := s.list(ctx, b.Outputs, "outputs")
	diags = append(diags, d...)
	p.Outputs = outputs

	if b.Depth != nil {
		val, d := b.Depth.Value(ctx)
		diags = append(diags, d...)
		if !d.HasErrors() && !val.IsNull() {
			r, d := s.resolve(val, b.Depth.Range(), "depth")
			diags = append(diags, d...)
			if !d.HasErrors() {
				p.Depth = &r
			}
		}
	}
	return p, diags
}

func (s *scope) list(ctx *hcl.EvalContext, expr hcl.Expression, attr string) ([]rdg.Resource, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(ctx)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid resource list",
			Detail:   fmt.Sprintf("The %q argument must be a list of texture or buffer references.", attr),
			Subject:  expr.Range().Ptr(),
		})
	}

	var out []rdg.Resource
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		r, d := s.resolve(v, expr.Range(), attr)
		diags = append(diags, d...)
		if !d.HasErrors() {
			out = append(out, r)
		}
	}
	return out, diags
}

func (s *scope) resolve(v cty.Value, rng hcl.Range, attr string) (rdg.Resource, hcl.Diagnostics) {
	invalid := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid resource reference",
		Detail:   fmt.Sprintf("The %q argument must refer to a declared texture or buffer, such as texture.albedo.", attr),
		Subject:  rng.Ptr(),
	}}
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return rdg.Resource{}, invalid
	}
	r, ok := s.refs[v.AsString()]
	if !ok {
		return rdg.Resource{}, invalid
	}
	return r, nil
}
