package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pulso-lab/pulso/internal/core/storage"
	"github.com/stretchr/testify/require"
	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "tipo_post", "titulo", "fecha_publicacion", "hora_publicacion",
		"impresiones", "me_gusta", "comentarios", "compartidos", "clics_enlaces",
		"contiene_enlace", "tiempo_retencion", "formato_contenido", "notas",
		"interacciones_total", "engagement_rate",
	})
}

func TestAdapter_SavePost_PopulatesGeneratedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(querySavePost))
	stmt, err := db.Prepare(querySavePost)
	require.NoError(t, err)

	adapter := &Adapter{db: db, stmtSavePost: stmt}

	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	post := &v1.PostRecord{
		ID:          "f3b9c6f2-1111-4fe1-9c58-000000000001",
		Username:    "alice",
		PostType:    "Instagram",
		PublishDate: date,
		PublishTime: "18:30",
		Impressions: 100,
		Likes:       5,
		Comments:    3,
		Shares:      2,
	}

	mock.ExpectQuery(regexp.QuoteMeta(querySavePost)).
		WithArgs(
			post.ID, "alice", "Instagram", sqlmock.AnyArg(), date, "18:30",
			int64(100), int64(5), int64(3), int64(2), int64(0),
			false, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"interacciones_total", "engagement_rate"}).
			AddRow(int64(10), 0.10))

	require.NoError(t, adapter.SavePost(context.Background(), post))
	require.Equal(t, int64(10), post.TotalInteractions)
	require.InDelta(t, 0.10, post.EngagementRate, 1e-12)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SavePost_DuplicateID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(querySavePost))
	stmt, err := db.Prepare(querySavePost)
	require.NoError(t, err)

	adapter := &Adapter{db: db, stmtSavePost: stmt}

	// ON CONFLICT DO NOTHING yields zero rows for duplicates.
	mock.ExpectQuery(regexp.QuoteMeta(querySavePost)).
		WillReturnRows(sqlmock.NewRows([]string{"interacciones_total", "engagement_rate"}))

	err = adapter.SavePost(context.Background(), &v1.PostRecord{
		ID:          "f3b9c6f2-1111-4fe1-9c58-000000000001",
		Username:    "alice",
		PostType:    "Instagram",
		PublishDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		PublishTime: "18:30",
	})
	require.ErrorIs(t, err, storage.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryPosts_BuildsFilteredQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := &Adapter{db: db}

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	retention := 42.5
	rows := postRows().AddRow(
		"f3b9c6f2-1111-4fe1-9c58-000000000001", "alice", "Instagram", "lanzamiento",
		start, "18:30:00",
		int64(100), int64(5), int64(3), int64(2), int64(1),
		true, retention, "carrusel", nil,
		int64(10), 0.10,
	)

	mock.ExpectQuery(`SELECT .* FROM publicaciones WHERE username = \$1 AND tipo_post = \$2 AND fecha_publicacion >= \$3 AND fecha_publicacion <= \$4 ORDER BY fecha_publicacion ASC, hora_publicacion ASC`).
		WithArgs("alice", "Instagram", start, end).
		WillReturnRows(rows)

	posts, err := adapter.QueryPosts(context.Background(), storage.PostFilter{
		Username:  "alice",
		PostType:  "Instagram",
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "alice", posts[0].Username)
	require.Equal(t, "18:30:00", posts[0].PublishTime)
	require.NotNil(t, posts[0].RetentionSeconds)
	require.InDelta(t, 42.5, *posts[0].RetentionSeconds, 1e-12)
	require.Equal(t, "", posts[0].Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryPosts_PaginatedOrdering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := &Adapter{db: db}

	mock.ExpectQuery(`SELECT .* FROM publicaciones WHERE username = \$1 ORDER BY fecha_publicacion DESC, hora_publicacion DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("alice", 10, 20).
		WillReturnRows(postRows())

	posts, err := adapter.QueryPosts(context.Background(), storage.PostFilter{
		Username: "alice",
		Limit:    10,
		Offset:   20,
	})
	require.NoError(t, err)
	require.Empty(t, posts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryPosts_RequiresUsername(t *testing.T) {
	adapter := &Adapter{}
	_, err := adapter.QueryPosts(context.Background(), storage.PostFilter{})
	require.Error(t, err)
}

func TestAdapter_ListPostTypes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(regexp.QuoteMeta(queryListPostTypes))
	stmt, err := db.Prepare(queryListPostTypes)
	require.NoError(t, err)

	adapter := &Adapter{db: db, stmtListTypes: stmt}

	mock.ExpectQuery(regexp.QuoteMeta(queryListPostTypes)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"tipo_post"}).
			AddRow("Instagram").
			AddRow("Reel"))

	types, err := adapter.ListPostTypes(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"Instagram", "Reel"}, types)
	require.NoError(t, mock.ExpectationsWereMet())
}
