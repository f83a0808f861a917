package es

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/undersea/storefront/internal/config"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info returned %s: %s", res.Status(), body)
	}

	return client, nil
}

// Index is one named index of the catalog cluster.
type Index struct {
	Client *elasticsearch.Client
	Name   string
}

// DeleteProduct removes the product's document. A document that was
// never indexed is not an error.
func (i *Index) DeleteProduct(ctx context.Context, productID string) error {
	res, err := i.Client.Delete(i.Name, productID, i.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete %s/%s: %w", i.Name, productID, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: delete %s/%s returned %s: %s", i.Name, productID, res.Status(), body)
	}
	return nil
}
