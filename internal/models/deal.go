package models

import (
	"time"

	"gorm.io/gorm"
)

// Deal 成交记录表
type Deal struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                                        // 主键
	DealNumber          string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"deal_number"`                    // 成交单号
	DealDate            time.Time      `gorm:"index;not null" json:"deal_date"`                                             // 成交日期
	Status              string         `gorm:"type:varchar(20);index;not null;default:'active'" json:"status"`              // 状态（active/unwound）
	Brand               string         `gorm:"type:varchar(20);index;not null" json:"brand"`                                // 品牌（bmw/mini）
	VehicleCondition    string         `gorm:"type:varchar(20);not null;default:'new'" json:"vehicle_condition"`            // 车况（new/used/cpo）
	StockNumber         string         `gorm:"type:varchar(50);index" json:"stock_number"`                                  // 库存编号
	CustomerName        string         `gorm:"type:varchar(120)" json:"customer_name"`                                      // 客户名称
	SalespersonID       uint           `gorm:"index;not null" json:"salesperson_id"`                                        // 销售顾问
	FinanceManagerID    *uint          `gorm:"index" json:"finance_manager_id,omitempty"`                                   // 金融经理
	MSRP                Money          `gorm:"type:decimal(20,2);not null;default:0" json:"msrp"`                           // 厂商指导价
	AVPMode             string         `gorm:"type:varchar(20);not null;default:'direct'" json:"avp_mode"`                  // AVP 录入方式
	AVPAmount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"avp_amount"`                     // AVP 金额
	FEGross             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"fe_gross"`                       // 前端毛利
	BEGross             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"be_gross"`                       // 后端毛利
	RewardsUpgradeBonus Money          `gorm:"type:decimal(20,2);not null;default:0" json:"rewards_upgrade_bonus"`          // 升级奖励
	Notes               string         `gorm:"type:text" json:"notes"`                                                      // 备注
	UnwoundAt           *time.Time     `gorm:"index" json:"unwound_at,omitempty"`                                           // 退单时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                                     // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`                                                     // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                              // 软删除时间

	Salesperson    *Salesperson    `gorm:"foreignKey:SalespersonID" json:"salesperson,omitempty"`                 // 销售顾问
	FinanceManager *FinanceManager `gorm:"foreignKey:FinanceManagerID" json:"finance_manager,omitempty"`          // 金融经理
	Products       []DealProduct   `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"products,omitempty"` // 产品明细
}

// TableName 指定表名
func (Deal) TableName() string {
	return "deals"
}

// DealProduct 成交产品明细表
type DealProduct struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                       // 主键
	DealID    uint      `gorm:"index;not null" json:"deal_id"`                              // 成交记录
	Product   string    `gorm:"type:varchar(30);index;not null" json:"product"`             // 产品标识
	Mode      string    `gorm:"type:varchar(20);not null;default:'direct'" json:"mode"`     // 录入方式
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 售价（计算模式）
	Cost      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`          // 成本（计算模式）
	Amount    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`        // 产品毛利
	CreatedAt time.Time `json:"created_at"`                                                 // 创建时间
}

// TableName 指定表名
func (DealProduct) TableName() string {
	return "deal_products"
}
