package insights

import (
	"context"
	"sort"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// InteractionComposition decomposes each post type's interactions into
// likes, comments and shares, with percentages over the type's interaction
// sum. Types whose interaction sum is zero report "0.0" for every share.
func (s *Service) InteractionComposition(ctx context.Context, username string) (*CompositionResponse, error) {
	records, err := s.fetchTyped(ctx, username, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &CompositionResponse{
			Message:     "No hay datos de publicaciones para generar este insight.",
			Composition: []CompositionRow{},
		}, nil
	}

	byType := coreins.GroupBy(records, func(r *v1.PostRecord) string { return r.PostType })
	types := make([]string, 0, len(byType))
	for postType := range byType {
		types = append(types, postType)
	}
	sort.Strings(types)

	rows := make([]CompositionRow, 0, len(types))
	for _, postType := range types {
		t := coreins.Reduce(byType[postType])
		rows = append(rows, CompositionRow{
			TipoPost:         postType,
			NumPosts:         t.Posts,
			MeGusta:          t.Likes,
			Comentarios:      t.Comments,
			Compartidos:      t.Shares,
			SumInteracciones: t.Interactions,
			PorcMeGusta:      fixed(t.PctLikes(), 1),
			PorcComentarios:  fixed(t.PctComments(), 1),
			PorcCompartidos:  fixed(t.PctShares(), 1),
		})
	}
	return &CompositionResponse{Composition: rows}, nil
}
