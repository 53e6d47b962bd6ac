package consensus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/config"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

// HederaClient submits topic messages through the Hedera Consensus Service.
type HederaClient struct {
	client *hedera.Client
	logger *slog.Logger
}

func NewHederaClient(cfg config.HederaConfig, logger *slog.Logger) (*HederaClient, error) {
	client, err := hedera.ClientForName(cfg.Network)
	if err != nil {
		return nil, errors.WrapConfigurationError(err, "unknown hedera network").
			WithContext("network", cfg.Network)
	}

	operatorID, err := hedera.AccountIDFromString(cfg.OperatorID)
	if err != nil {
		return nil, errors.WrapConfigurationError(err, "invalid operator account id")
	}
	operatorKey, err := hedera.PrivateKeyFromString(cfg.OperatorKey)
	if err != nil {
		return nil, errors.WrapConfigurationError(err, "invalid operator key")
	}
	client.SetOperator(operatorID, operatorKey)

	return &HederaClient{
		client: client,
		logger: logger,
	}, nil
}

func (c *HederaClient) SubmitMessage(ctx context.Context, topicID model.TopicID, payload []byte) (port.SubmitReceipt, error) {
	if err := ctx.Err(); err != nil {
		return port.SubmitReceipt{}, err
	}

	hTopicID, err := hedera.TopicIDFromString(topicID.String())
	if err != nil {
		return port.SubmitReceipt{}, errors.WrapConfigurationError(err, "invalid topic id").
			WithContext("topic_id", topicID.String())
	}

	resp, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(hTopicID).
		SetMessage(payload).
		Execute(c.client)
	if err != nil {
		return port.SubmitReceipt{}, errors.WrapTransportError(err, "topic message submit failed").
			WithContext("topic_id", topicID.String())
	}

	receipt, err := resp.GetReceipt(c.client)
	if err != nil {
		return port.SubmitReceipt{}, errors.WrapTransportError(err, "could not fetch submit receipt").
			WithContext("transaction_id", resp.TransactionID.String())
	}
	if receipt.Status != hedera.StatusSuccess {
		return port.SubmitReceipt{}, errors.NewTransportError(
			fmt.Sprintf("submit rejected with status %s", receipt.Status))
	}

	c.logger.Debug("Message submitted",
		"topic_id", topicID.String(),
		"sequence_number", receipt.TopicSequenceNumber,
		"transaction_id", resp.TransactionID.String(),
	)

	return port.SubmitReceipt{
		TransactionID:  resp.TransactionID.String(),
		TopicID:        topicID,
		SequenceNumber: receipt.TopicSequenceNumber,
	}, nil
}

func (c *HederaClient) Close() error {
	return c.client.Close()
}

var _ port.ConsensusClient = (*HederaClient)(nil)
