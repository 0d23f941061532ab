package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "bookdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookdesk.db")
	db, err := Open(path)
	require.NoError(t, err)

	applied, err := db.AppliedMigrations(context.Background())
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, LatestVersion(), applied[0].Version)
	require.NoError(t, db.Close())

	// Reopening must not re-run migrations.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	applied, err = db.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Len(t, applied, 1)
}

func TestExtractUpMigration(t *testing.T) {
	content := `-- +goose Up
-- +goose StatementBegin
CREATE TABLE a (id INTEGER);
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
DROP TABLE a;
-- +goose StatementEnd`

	up := extractUpMigration(content)
	assert.Contains(t, up, "CREATE TABLE a")
	assert.NotContains(t, up, "DROP TABLE")
}

func TestBookQueries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t).DB()

	books := []Book{
		{ISBN: "111", Title: "Harry Potter and the Philosopher's Stone", Author: "J. K. Rowling", Price: 12.5, Stock: 4},
		{ISBN: "222", Title: "The Hobbit", Author: "J. R. R. Tolkien", Price: 9.99, Stock: 1},
		{ISBN: "333", Title: "Dirty Harry Novelization", Author: "Phillip Rock", Price: 5, Stock: 0},
		{ISBN: "444", Title: "Self-Reliance", Author: "Ralph Waldo Emerson", Price: 3, Stock: 7},
	}
	for i := range books {
		require.NoError(t, UpsertBook(ctx, db, &books[i]))
	}

	t.Run("get missing book returns nil", func(t *testing.T) {
		b, err := GetBook(ctx, db, "nope")
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("title search ignores case", func(t *testing.T) {
		found, err := SearchBooksByTitle(ctx, db, "HARRY")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "333", found[0].ISBN)
		assert.Equal(t, "111", found[1].ISBN)
	})

	t.Run("author search", func(t *testing.T) {
		found, err := SearchBooksByAuthor(ctx, db, "tolkien")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "The Hobbit", found[0].Title)
	})

	t.Run("no match is an empty result", func(t *testing.T) {
		found, err := SearchBooksByTitle(ctx, db, "zzz")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("loose title treats separators as spaces", func(t *testing.T) {
		b, err := FindBookByLooseTitle(ctx, db, "self reliance")
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, "444", b.ISBN)

		b, err = FindBookByLooseTitle(ctx, db, "the_hobbit")
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Equal(t, "222", b.ISBN)
	})

	t.Run("stock delta never goes negative", func(t *testing.T) {
		ok, err := ApplyStockDelta(ctx, db, "222", -2)
		require.NoError(t, err)
		assert.False(t, ok)

		b, err := GetBook(ctx, db, "222")
		require.NoError(t, err)
		assert.Equal(t, 1, b.Stock)

		ok, err = ApplyStockDelta(ctx, db, "222", -1)
		require.NoError(t, err)
		assert.True(t, ok)
		b, err = GetBook(ctx, db, "222")
		require.NoError(t, err)
		assert.Equal(t, 0, b.Stock)
	})

	t.Run("inventory totals and low stock", func(t *testing.T) {
		totals, err := GetInventoryTotals(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, 4, totals.Titles)
		assert.Equal(t, 11, totals.Stock)

		low, err := ListLowStockBooks(ctx, db, 3)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "222", low[0].ISBN)
		assert.Equal(t, "333", low[1].ISBN)
	})

	t.Run("set price on missing isbn", func(t *testing.T) {
		ok, err := SetBookPrice(ctx, db, "missing", 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t).DB()

	require.NoError(t, UpsertBook(ctx, db, &Book{ISBN: "111", Title: "Dune", Author: "Frank Herbert", Price: 10, Stock: 5}))
	customer := &Customer{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, UpsertCustomer(ctx, db, customer))
	require.NotZero(t, customer.ID)

	again := &Customer{Name: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, UpsertCustomer(ctx, db, again))
	assert.Equal(t, customer.ID, again.ID)

	order := &Order{CustomerID: customer.ID}
	require.NoError(t, CreateOrder(ctx, db, order))
	require.NotZero(t, order.ID)

	item := &OrderItem{OrderID: order.ID, ISBN: "111", Qty: 2, UnitPrice: 10}
	require.NoError(t, CreateOrderItem(ctx, db, item))

	header, err := GetOrderHeader(ctx, db, order.ID)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, "Ada Lovelace", header.CustomerName)

	details, err := GetOrderItemDetails(ctx, db, order.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Dune", details[0].Title)
	assert.Equal(t, 2, details[0].Qty)

	missing, err := GetOrderHeader(ctx, db, order.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	t.Run("order for unknown customer violates foreign key", func(t *testing.T) {
		err := CreateOrder(ctx, db, &Order{CustomerID: 9999})
		assert.Error(t, err)
	})

	t.Run("reset catalog clears everything", func(t *testing.T) {
		require.NoError(t, ResetCatalog(ctx, db))
		books, err := ListBooks(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, books)
		customers, err := ListCustomers(ctx, db)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})
}

func TestSessionMessagesAndToolCalls(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t).DB()

	name := "Front desk"
	session := &Session{Name: &name}
	require.NoError(t, CreateSession(ctx, db, session))
	require.NotZero(t, session.ID)

	base := time.Now().UTC()
	msgs := []Message{
		{SessionID: session.ID, Role: RoleUser, Content: "do you have dune?", CreatedAt: base},
		{SessionID: session.ID, Role: RoleAssistant, Content: "yes, 5 copies", CreatedAt: base.Add(time.Millisecond)},
		{SessionID: session.ID, Role: RoleUser, Content: "order two", CreatedAt: base.Add(2 * time.Millisecond)},
	}
	for i := range msgs {
		require.NoError(t, CreateMessage(ctx, db, &msgs[i]))
	}

	got, err := GetMessagesBySessionID(ctx, db, session.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range msgs {
		assert.Equal(t, msgs[i].Role, got[i].Role)
		assert.Equal(t, msgs[i].Content, got[i].Content)
	}

	require.NoError(t, CreateToolCall(ctx, db, &ToolCall{SessionID: session.ID, Name: "find_books", ArgsJSON: `{"q":"dune"}`, ResultJSON: `[]`}))
	calls, err := GetToolCallsBySessionID(ctx, db, session.ID)
	require.NoError(t, err)
	require.Len(t, calls, 1)

	t.Run("invalid role is rejected", func(t *testing.T) {
		err := CreateMessage(ctx, db, &Message{SessionID: session.ID, Role: Role("tool"), Content: "x"})
		assert.Error(t, err)
	})

	t.Run("delete cascades", func(t *testing.T) {
		existed, err := DeleteSession(ctx, db, session.ID)
		require.NoError(t, err)
		assert.True(t, existed)

		got, err := GetMessagesBySessionID(ctx, db, session.ID)
		require.NoError(t, err)
		assert.Empty(t, got)

		calls, err := GetToolCallsBySessionID(ctx, db, session.ID)
		require.NoError(t, err)
		assert.Empty(t, calls)

		existed, err = DeleteSession(ctx, db, session.ID)
		require.NoError(t, err)
		assert.False(t, existed)
	})
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t).DB()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, CreateSession(ctx, db, &Session{CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	sessions, err := ListSessions(ctx, db)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.True(t, sessions[0].CreatedAt.After(sessions[1].CreatedAt))
	assert.True(t, sessions[1].CreatedAt.After(sessions[2].CreatedAt))
	assert.Nil(t, sessions[0].Name)
}
