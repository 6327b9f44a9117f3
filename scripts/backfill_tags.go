// 手动补全题目知识点标签脚本
//
// 模型输出降级时题目会以空知识点落库，此脚本对这些题目重新调用
// 解题接口补上标签。适合在大量导入历史数据后手动执行一次。
//
// 用法: go run scripts/backfill_tags.go

package main

import (
	"log"
	"strings"

	"k12_tutor_backend/internal/config"
	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/pkg/database"
	"k12_tutor_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	llm := service.NewLLMService(cfg.AI)

	var questions []model.Question
	if err := db.Where("knowledge_point = ''").Find(&questions).Error; err != nil {
		log.Fatalf("查询待补标签题目失败: %v", err)
	}

	log.Printf("共 %d 道题目缺少知识点标签", len(questions))

	tagged := 0
	for _, q := range questions {
		result, err := llm.SolveQuestion(q.Content, "")
		if err != nil {
			log.Printf("题目 %d 调用失败: %v", q.ID, err)
			continue
		}
		if len(result.KnowledgePoints) == 0 {
			continue
		}

		kp := strings.Join(result.KnowledgePoints, ",")
		if err := db.Model(&model.Question{}).Where("id = ?", q.ID).
			Update("knowledge_point", kp).Error; err != nil {
			log.Printf("题目 %d 更新失败: %v", q.ID, err)
			continue
		}
		tagged++
	}

	log.Printf("完成，补全 %d 道题目", tagged)
}
