package pipeline

import (
	"context"
	"fmt"

	"cropyield/internal/domain/entity"
)

// Pipeline chains a Preprocessor and a DecisionTree.
type Pipeline struct {
	pre  *Preprocessor
	tree *DecisionTree
}

func New(pre *Preprocessor, tree *DecisionTree) (*Pipeline, error) {
	if pre.Width() != tree.NFeatures {
		return nil, fmt.Errorf("preprocessor produces %d features but model expects %d", pre.Width(), tree.NFeatures)
	}
	return &Pipeline{pre: pre, tree: tree}, nil
}

func (p *Pipeline) Estimate(_ context.Context, in entity.CropInput) (*entity.Estimate, error) {
	features, err := p.pre.Transform(in)
	if err != nil {
		return nil, err
	}
	value, err := p.tree.Predict(features)
	if err != nil {
		return nil, err
	}
	return &entity.Estimate{Value: value, Features: features, Source: entity.SourceModel}, nil
}

func (p *Pipeline) Width() int {
	return p.pre.Width()
}

func (p *Pipeline) Depth() int {
	return p.tree.Depth()
}

func (p *Pipeline) Catalog() entity.Catalog {
	return entity.Catalog{
		Areas: p.pre.Categories(entity.ColumnArea),
		Items: p.pre.Categories(entity.ColumnItem),
	}
}
