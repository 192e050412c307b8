package persistent

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectIDs() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(idColumn).
		From(seedDataTable)
}

func ptr(v bool) *bool { return &v }

func TestApplyFilterEmpty(t *testing.T) {
	t.Parallel()

	sql, args, err := applyFilter(selectIDs(), dto.Filter{Query: "   "}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM seed_data", sql)
	assert.Empty(t, args)
}

func TestApplyFilterTextSearchesThreeColumns(t *testing.T) {
	t.Parallel()

	sql, args, err := applyFilter(selectIDs(), dto.Filter{Query: " qr-12 "}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM seed_data WHERE (qr_code ILIKE $1 OR seed_id ILIKE $2 OR description ILIKE $3)",
		sql,
	)
	assert.Equal(t, []any{"%qr-12%", "%qr-12%", "%qr-12%"}, args)
}

func TestApplyFilterEscapesLikeWildcards(t *testing.T) {
	t.Parallel()

	_, args, err := applyFilter(selectIDs(), dto.Filter{Query: `50%_a\b`}).ToSql()
	require.NoError(t, err)

	require.Len(t, args, 3)
	assert.Equal(t, `%50\%\_a\\b%`, args[0])
}

func TestApplyFilterOnlyTrueFlagsNarrow(t *testing.T) {
	t.Parallel()

	filter := dto.Filter{
		Query: "s1",
		Flags: dto.Flags{
			Germinated: ptr(true),
			Vigorous:   ptr(false),
			Usable:     ptr(true),
		},
	}

	sql, args, err := applyFilter(selectIDs(), filter).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM seed_data WHERE (qr_code ILIKE $1 OR seed_id ILIKE $2 OR description ILIKE $3) "+
			"AND germinated = $4 AND usable = $5",
		sql,
	)
	assert.Equal(t, []any{"%s1%", "%s1%", "%s1%", true, true}, args)
}

func TestApplyFilterFalseFlagsAddNothing(t *testing.T) {
	t.Parallel()

	filter := dto.Filter{Flags: dto.Flags{
		Germinated: ptr(false),
		Small:      ptr(false),
		Abnormal:   ptr(false),
	}}

	sql, args, err := applyFilter(selectIDs(), filter).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM seed_data", sql)
	assert.Empty(t, args)
}

func TestListQueryOrdersOldestFirst(t *testing.T) {
	t.Parallel()

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sql, args, err := listQuery(builder, dto.Filter{Flags: dto.Flags{Small: ptr(true)}}).
		Limit(10).
		Offset(20).
		ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT id, qr_code, seed_id, "))
	assert.True(t, strings.HasSuffix(sql, "FROM seed_data WHERE small = $1 ORDER BY id ASC LIMIT 10 OFFSET 20"), sql)
	assert.Equal(t, []any{true}, args)
}
