package layout

// Cursor 是排版写入头：当前页序号与页内 y 坐标。
// 同一页内 Y 只增不减，换页时 PageIndex 增加并重置 Y。
type Cursor struct {
	PageIndex int     `json:"pageIndex"`
	Y         float64 `json:"y"`
}

// Controller 是唯一的换页决策点：任何区块在写入前都必须先经过 EnsureSpace。
type Controller struct {
	doc *Document
	cfg Config
}

// NewController 创建绑定到 doc 的换页控制器。
func NewController(doc *Document) *Controller {
	return &Controller{doc: doc, cfg: doc.cfg}
}

// Document 返回控制器所绑定的文档。
func (pc *Controller) Document() *Document { return pc.doc }

// Remaining 返回游标到页脚保留区之间还剩多少高度。
func (pc *Controller) Remaining(cur Cursor) float64 {
	return pc.cfg.PageHeight - cur.Y - pc.cfg.FooterReserve
}

// EnsureSpace 在剩余高度不足 required 时换页，并把游标重置到 Margin+HeaderHeight；
// 否则原样返回游标。required 超过整页可用高度时记录 LayoutOverflow，且最多只换一次页：
// 若游标已经位于空白页顶部，则不再换页，直接在当前页继续。
func (pc *Controller) EnsureSpace(cur Cursor, required float64) Cursor {
	if pc.Remaining(cur) >= required {
		return cur
	}
	if required > pc.cfg.UsableHeight() {
		pc.doc.overflows++
		pc.doc.logger.Warn(ErrLayoutOverflow.Error(), "required", required, "usable", pc.cfg.UsableHeight(), "page", cur.PageIndex+1)
		if cur.Y <= pc.cfg.ContentTop() {
			return cur
		}
	}
	pc.doc.logger.Debug("换页", "page", cur.PageIndex+1, "y", cur.Y, "required", required)
	return pc.Break(cur)
}

// Break 无条件开始新的一页。
func (pc *Controller) Break(cur Cursor) Cursor {
	idx := pc.doc.NewPage()
	return Cursor{PageIndex: idx, Y: pc.cfg.ContentTop()}
}

// sync 校验游标与文档当前页一致。
func (pc *Controller) sync(cur Cursor) error {
	if cur.PageIndex != pc.doc.PageIndex() {
		return ErrStaleCursor
	}
	return nil
}
