package entity

import "strings"

// Base64url (unpadded) Arweave transaction id
type TxId string

func (id TxId) String() string {
	return string(id)
}

// URL joins id onto gateway, e.g. https://arweave.net/<id>
func (id TxId) URL(gateway string) string {
	return strings.TrimRight(gateway, "/") + "/" + string(id)
}

// ArweaveKey is the JSON form an oracle may store instead of hex,
// e.g. {"arweave":"Zg6CZYfxXCWYnCuKEpnZCYfy7ghit1_v4-BCe53iWuA"}
type ArweaveKey struct {
	Arweave string `json:"arweave"`
}

type Transaction struct {
	TxId   TxId   `json:"txid"`
	URL    string `json:"url"`
	Status int    `json:"status"`
	Body   string `json:"body"` // Unmodified response body
}
