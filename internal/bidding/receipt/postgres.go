package receipt

import (
	"context"
	"errors"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on Postgres, for gateways that want receipts
// to survive restarts
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a receipt store backed by the given pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Get(ctx context.Context, auctionID, email string) (domain.BidReceipt, bool, error) {
	query := `
        SELECT auction_id, bidder_email, last_bid_amount, bid_time
        FROM bid_receipts
        WHERE auction_id = $1 AND bidder_email = $2
    `
	var r domain.BidReceipt
	err := p.pool.QueryRow(ctx, query, auctionID, receiptKey(email)).Scan(
		&r.AuctionID,
		&r.BidderEmail,
		&r.LastBidAmount,
		&r.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BidReceipt{}, false, nil
		}
		return domain.BidReceipt{}, false, err
	}
	return r, true, nil
}

func (p *PostgresStore) Latest(ctx context.Context, auctionID string) (domain.BidReceipt, bool, error) {
	query := `
        SELECT auction_id, bidder_email, last_bid_amount, bid_time
        FROM bid_receipts
        WHERE auction_id = $1
        ORDER BY bid_time DESC
        LIMIT 1
    `
	var r domain.BidReceipt
	err := p.pool.QueryRow(ctx, query, auctionID).Scan(
		&r.AuctionID,
		&r.BidderEmail,
		&r.LastBidAmount,
		&r.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BidReceipt{}, false, nil
		}
		return domain.BidReceipt{}, false, err
	}
	return r, true, nil
}

func (p *PostgresStore) Put(ctx context.Context, r domain.BidReceipt) error {
	query := `
        INSERT INTO bid_receipts (auction_id, bidder_email, last_bid_amount, bid_time)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (auction_id, bidder_email)
        DO UPDATE SET last_bid_amount = $3, bid_time = $4
    `
	_, err := p.pool.Exec(ctx, query,
		r.AuctionID,
		receiptKey(r.BidderEmail),
		r.LastBidAmount,
		r.Timestamp,
	)
	return err
}
