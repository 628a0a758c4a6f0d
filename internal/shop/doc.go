// Package shop holds the keyed-storage collaborators around the
// conversation core: the order book, the product catalog, per-session carts
// and the recently-viewed window. None of it carries dialogue logic; the
// engine only consults the order book for direct answers.
package shop
