package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType 区分不同用途的 ID 序列，避免公开 ID 和消息 ID 相互挤占
type GeneratorType int

const (
	GeneratorTypeUser GeneratorType = iota
	GeneratorTypeMessage
)

var (
	nodes map[GeneratorType]*snowflake.Node
	once  sync.Once

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 {
			initErr = errInvalidMachineID
			return
		}

		nodes = make(map[GeneratorType]*snowflake.Node)
		for _, t := range []GeneratorType{GeneratorTypeUser, GeneratorTypeMessage} {
			// datacenterID 和 machineID 都是 0~31，不同用途错开 nodeID
			nodeID := (dataCenterID << 5) | ((machineID + int64(t)) & 31)

			node, err := snowflake.NewNode(nodeID)
			if err != nil {
				initErr = err
				return
			}
			nodes[t] = node
		}
	})

	return initErr
}

func NextID(t GeneratorType) (int64, error) {
	if nodes == nil {
		return 0, errGeneratorUninitial
	}

	node, ok := nodes[t]
	if !ok {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}
